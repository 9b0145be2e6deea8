package api

import (
	"net/http"

	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EntityHandler handles content entity lifecycle endpoints
type EntityHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewEntityHandler creates a new EntityHandler
func NewEntityHandler(services *service.Services, log zerolog.Logger) *EntityHandler {
	return &EntityHandler{
		services: services,
		log:      log.With().Str("handler", "entity").Logger(),
	}
}

// CreateEntity handles POST /v1/projects/:project_id/entities
func (h *EntityHandler) CreateEntity(c *gin.Context) {
	projectID := c.Param("project_id")

	var req models.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entity, err := h.services.Lifecycle.CreateEntity(c.Request.Context(), projectID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, entity)
}

// GetEntity handles GET /v1/projects/:project_id/entities/:entity_id
func (h *EntityHandler) GetEntity(c *gin.Context) {
	entity, err := h.services.Lifecycle.GetEntity(c.Request.Context(), c.Param("project_id"), c.Param("entity_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// RequestPublish handles POST /v1/projects/:project_id/entities/:entity_id/request-publish
func (h *EntityHandler) RequestPublish(c *gin.Context) {
	entity, err := h.services.Lifecycle.RequestPublish(c.Request.Context(),
		c.Param("project_id"), c.Param("entity_id"), actorFromBody(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// Publish handles POST /v1/projects/:project_id/entities/:entity_id/publish
func (h *EntityHandler) Publish(c *gin.Context) {
	entity, err := h.services.Lifecycle.Publish(c.Request.Context(),
		c.Param("project_id"), c.Param("entity_id"), actorFromBody(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// Validate handles POST /v1/projects/:project_id/entities/:entity_id/validate
func (h *EntityHandler) Validate(c *gin.Context) {
	report, err := h.services.Lifecycle.Validate(c.Request.Context(),
		c.Param("project_id"), c.Param("entity_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Archive handles POST /v1/projects/:project_id/entities/:entity_id/archive
func (h *EntityHandler) Archive(c *gin.Context) {
	entity, err := h.services.Lifecycle.Archive(c.Request.Context(),
		c.Param("project_id"), c.Param("entity_id"), actorFromBody(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// TriageSourceItem handles POST /v1/projects/:project_id/source-items/:item_id/triage
func (h *EntityHandler) TriageSourceItem(c *gin.Context) {
	var req struct {
		Status models.TriageStatus `json:"status"`
		Actor  models.Actor        `json:"actor,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.services.Lifecycle.TriageSourceItem(c.Request.Context(),
		c.Param("project_id"), c.Param("item_id"), req.Status, req.Actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// actorFromBody reads an optional {"actor": "..."} body; absent or invalid
// bodies fall back to the system actor at the service layer.
func actorFromBody(c *gin.Context) models.Actor {
	var req struct {
		Actor models.Actor `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return ""
	}
	return req.Actor
}
