package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gobrain/internal/metrics"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, m *metrics.Metrics, apiToken string) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Brain API routes
	brain := router.Group("/api/brain", AuthMiddleware(apiToken))
	{
		// Suggestion endpoints
		brain.POST("/suggest", handler.Suggest)           // POST /api/brain/suggest
		brain.POST("/suggest/file", handler.SuggestFile)  // POST /api/brain/suggest/file
		brain.GET("/preview", handler.Preview)            // GET /api/brain/preview?url=...

		// Media endpoints
		media := brain.Group("/media")
		{
			media.GET("/:filename", handler.GetMedia)       // GET /api/brain/media/:filename
			media.DELETE("/:filename", handler.DeleteMedia) // DELETE /api/brain/media/:filename
		}

		// Note persistence endpoints
		notes := brain.Group("/notes")
		{
			notes.POST("", handler.SaveNote)                // POST /api/brain/notes
			notes.DELETE("/:storageId", handler.DeleteNote) // DELETE /api/brain/notes/:storageId
		}
	}
}
