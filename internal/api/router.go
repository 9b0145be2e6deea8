package api

import (
	"net/http"
	"time"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	relationHandler := NewRelationHandler(services, log)
	entityHandler := NewEntityHandler(services, log)
	artifactHandler := NewArtifactHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(repos))

	// API v1. Project scope resolution happens upstream; handlers receive an
	// already-resolved project id in the path.
	v1 := router.Group("/v1")
	{
		projects := v1.Group("/projects/:project_id")
		{
			projects.POST("/relations", relationHandler.CreateEdge)
			projects.PATCH("/relations/:edge_id/notes", relationHandler.UpdateNotes)
			projects.GET("/graph/:node_id", relationHandler.TraverseGraph)

			projects.POST("/entities", entityHandler.CreateEntity)
			projects.GET("/entities/:entity_id", entityHandler.GetEntity)
			projects.POST("/entities/:entity_id/request-publish", entityHandler.RequestPublish)
			projects.POST("/entities/:entity_id/publish", entityHandler.Publish)
			projects.POST("/entities/:entity_id/validate", entityHandler.Validate)
			projects.POST("/entities/:entity_id/archive", entityHandler.Archive)

			projects.POST("/source-items/:item_id/triage", entityHandler.TriageSourceItem)

			projects.POST("/artifacts", artifactHandler.CreateArtifact)
			projects.GET("/artifacts/:artifact_id", artifactHandler.GetArtifact)
			projects.POST("/artifacts/:artifact_id/archive", artifactHandler.ArchiveArtifact)
		}

		// The sweep crosses project boundaries; it is triggered externally.
		v1.POST("/artifacts/sweep", artifactHandler.SweepExpired)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "content-graph-api",
	})
}

// metricsHandler returns record counts
func metricsHandler(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		entitiesCount, _ := repos.Entity.Count(ctx)
		relationsCount, _ := repos.Relation.Count(ctx)
		artifactsCount, _ := repos.Artifact.Count(ctx)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"entities":  entitiesCount,
				"relations": relationsCount,
				"artifacts": artifactsCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
