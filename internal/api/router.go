package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/config"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/handler"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/middleware"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/service"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/stream"
)

// SetupRouter wires the HTTP surface
func SetupRouter(
	cfg *config.Config,
	tracking *service.TrackingService,
	history *service.HistoryService,
	hub *stream.Hub,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS for the map client
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	trackHandler := handler.NewTrackHandler(tracking)
	sessionHandler := handler.NewSessionHandler(tracking)
	statsHandler := handler.NewStatsHandler(tracking, history)
	historyHandler := handler.NewHistoryHandler(history)
	authHandler := handler.NewAuthHandler(cfg.JWTSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Fog of Dog exploration API is running",
		})
	})

	r.GET("/ws", stream.Handler(hub))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(600, time.Minute))
	{
		api.POST("/auth/token", authHandler.IssueToken)

		// Read surface
		api.GET("/stats", statsHandler.Current)
		api.GET("/stats/formatted", statsHandler.Formatted)
		api.GET("/track/points", trackHandler.ListPoints)
		api.GET("/explore/contains", trackHandler.Explored)
		api.GET("/session", sessionHandler.List)
		api.GET("/history/export", historyHandler.Export)

		// Mutating surface requires a device token
		protected := api.Group("")
		protected.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			protected.POST("/track/points", trackHandler.IngestPoint)
			protected.POST("/track/points/batch", trackHandler.IngestBatch)

			protected.POST("/session/start", sessionHandler.Start)
			protected.POST("/session/pause", sessionHandler.Pause)
			protected.POST("/session/resume", sessionHandler.Resume)
			protected.POST("/session/end", sessionHandler.End)
			protected.POST("/session/reset", sessionHandler.Reset)

			protected.POST("/history/import", historyHandler.Import)
			protected.POST("/stats/recompute", statsHandler.Recompute)
		}
	}

	return r
}
