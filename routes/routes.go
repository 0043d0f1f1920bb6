package routes

import (
	"time"

	"tasknotify/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the operational HTTP surface.
func RegisterRoutes(r *gin.Engine, th *handlers.TriggerHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", handlers.HealthHandler)

	api := r.Group("/api")
	{
		api.POST("/triggers/replay", th.ReplayChangeHandler)
	}
}
