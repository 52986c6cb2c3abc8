package routes

import (
	"github.com/gin-gonic/gin"

	"tailorcv/internal/interfaces/http/handlers"
)

// AuthRouteConfig holds dependencies for token verification routes.
type AuthRouteConfig struct {
	VerifyHandler *handlers.VerifyHandler
}

// SetupAuthRoutes configures token verification routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	engine.GET("/api/auth/verify", cfg.VerifyHandler.Verify)
}
