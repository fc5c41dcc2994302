package http

import (
	"github.com/cartwise/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		duplicates := v1.Group("/duplicates")
		{
			duplicates.POST("/detect", handler.DetectDuplicates)
			duplicates.POST("/store-check", handler.CheckStore)
		}

		users := v1.Group("/users/:userId")
		{
			users.GET("/settings", handler.GetSettings)
			users.PUT("/settings", handler.SaveSettings)
			users.PUT("/lists/:listId", handler.SaveList)
			users.DELETE("/lists/:listId", handler.DeleteList)
			users.GET("/lists/:listId/duplicates", handler.UserDuplicates)
		}
	}

	return router
}
