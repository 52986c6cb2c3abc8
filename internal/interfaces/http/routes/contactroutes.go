package routes

import (
	"github.com/gin-gonic/gin"

	"tailorcv/internal/interfaces/http/handlers"
)

// ContactRouteConfig holds dependencies for the contact route.
type ContactRouteConfig struct {
	ContactHandler *handlers.ContactHandler
}

// SetupContactRoutes configures the contact route.
func SetupContactRoutes(engine *gin.Engine, cfg *ContactRouteConfig) {
	engine.POST("/api/contact", cfg.ContactHandler.Submit)
}
