package http

import (
	"github.com/gin-gonic/gin"

	"github.com/grocerylens/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/optimize", handler.Optimize)
		v1.POST("/units/parse", handler.ParseUnits)

		products := v1.Group("/products")
		{
			products.POST("/normalize", handler.NormalizeProduct)
			products.POST("/similarity", handler.Similarity)
			products.POST("/substitutions", handler.Substitutions)
			products.POST("/parse", handler.ParseList)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", handler.ListStores)
			stores.GET("/canonical", handler.CanonicalStore)
		}
	}

	return router
}
