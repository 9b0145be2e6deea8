package api

import (
	"errors"
	"net/http"

	"github.com/content-graph-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps core errors to HTTP responses. Non-disclosure policy:
// cross-project access and dangling endpoints are presented identically to
// not-found, so a caller cannot learn that a record exists in another
// project.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var validationErr *models.ValidationFailedError

	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrDanglingEndpoint),
		errors.Is(err, models.ErrCrossProjectEdge):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})

	case errors.Is(err, models.ErrInvalidRelationType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrDuplicateEdge):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "validation failed",
			"failures": validationErr.Failures,
		})

	case errors.Is(err, models.ErrUnsupportedKind):
		// Configuration error, not a client mistake.
		log.Error().Err(err).Msg("Resolver given unsupported kind")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})

	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
