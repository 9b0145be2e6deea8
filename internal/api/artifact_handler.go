package api

import (
	"net/http"
	"strconv"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArtifactHandler handles ephemeral artifact endpoints
type ArtifactHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewArtifactHandler creates a new ArtifactHandler
func NewArtifactHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "artifact").Logger(),
	}
}

// CreateArtifact handles POST /v1/projects/:project_id/artifacts
func (h *ArtifactHandler) CreateArtifact(c *gin.Context) {
	projectID := c.Param("project_id")

	var req models.CreateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	artifact, err := h.services.Artifact.Create(c.Request.Context(), projectID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, artifact)
}

// GetArtifact handles GET /v1/projects/:project_id/artifacts/:artifact_id
func (h *ArtifactHandler) GetArtifact(c *gin.Context) {
	artifact, err := h.services.Artifact.Get(c.Request.Context(),
		c.Param("project_id"), c.Param("artifact_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

// ArchiveArtifact handles POST /v1/projects/:project_id/artifacts/:artifact_id/archive
func (h *ArtifactHandler) ArchiveArtifact(c *gin.Context) {
	artifact, err := h.services.Artifact.Archive(c.Request.Context(),
		c.Param("project_id"), c.Param("artifact_id"), actorFromBody(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

// SweepExpired handles POST /v1/artifacts/sweep
// Query param: limit (defaults to the configured sweep batch size)
func (h *ArtifactHandler) SweepExpired(c *gin.Context) {
	limit := h.cfg.Artifact.SweepBatchSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	archivedIDs, err := h.services.Artifact.SweepExpired(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"archived_ids": archivedIDs,
		"archived":     len(archivedIDs),
	})
}
