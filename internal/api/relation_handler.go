package api

import (
	"net/http"
	"strconv"

	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RelationHandler handles relation edge and graph traversal endpoints
type RelationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewRelationHandler creates a new RelationHandler
func NewRelationHandler(services *service.Services, log zerolog.Logger) *RelationHandler {
	return &RelationHandler{
		services: services,
		log:      log.With().Str("handler", "relation").Logger(),
	}
}

// CreateEdge handles POST /v1/projects/:project_id/relations
func (h *RelationHandler) CreateEdge(c *gin.Context) {
	projectID := c.Param("project_id")

	var req models.CreateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	edge, err := h.services.Relation.CreateEdge(c.Request.Context(), projectID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, edge)
}

// UpdateNotes handles PATCH /v1/projects/:project_id/relations/:edge_id/notes
func (h *RelationHandler) UpdateNotes(c *gin.Context) {
	projectID := c.Param("project_id")
	edgeID := c.Param("edge_id")

	var req struct {
		Notes string       `json:"notes"`
		Actor models.Actor `json:"actor,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	edge, err := h.services.Relation.UpdateNotes(c.Request.Context(), projectID, edgeID, req.Notes, req.Actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, edge)
}

// TraverseGraph handles GET /v1/projects/:project_id/graph/:node_id
// Query params: kind (required), depth (1 or 2, default 1), relation_type
func (h *RelationHandler) TraverseGraph(c *gin.Context) {
	projectID := c.Param("project_id")

	kind := models.Kind(c.Query("kind"))
	if kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind query parameter is required"})
		return
	}
	// Reject unknown kinds here; past this point an unresolvable kind means
	// a vocabulary/resolver drift, not a client mistake.
	if !models.EntityKinds[kind] && !models.AuxiliaryKinds[kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown node kind"})
		return
	}

	depth := 1
	if raw := c.Query("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be 1 or 2"})
			return
		}
		depth = parsed
	}

	root := models.NodeRef{Kind: kind, ID: c.Param("node_id")}
	filter := models.RelationType(c.Query("relation_type"))

	result, err := h.services.Relation.Traverse(c.Request.Context(), projectID, root, depth, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
