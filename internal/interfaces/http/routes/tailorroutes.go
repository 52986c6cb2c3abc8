package routes

import (
	"github.com/gin-gonic/gin"

	"tailorcv/internal/interfaces/http/handlers"
)

// TailorRouteConfig holds dependencies for the tailoring route.
type TailorRouteConfig struct {
	TailorHandler *handlers.TailorHandler
}

// SetupTailorRoutes configures the tailoring route.
func SetupTailorRoutes(engine *gin.Engine, cfg *TailorRouteConfig) {
	engine.POST("/api/tailor", cfg.TailorHandler.Tailor)
}
