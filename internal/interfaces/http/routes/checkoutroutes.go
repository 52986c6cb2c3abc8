package routes

import (
	"github.com/gin-gonic/gin"

	"tailorcv/internal/interfaces/http/handlers"
)

// CheckoutRouteConfig holds dependencies for checkout and webhook routes.
type CheckoutRouteConfig struct {
	CheckoutHandler *handlers.CheckoutHandler
	WebhookHandler  *handlers.WebhookHandler
}

// SetupCheckoutRoutes configures checkout and webhook routes.
func SetupCheckoutRoutes(engine *gin.Engine, cfg *CheckoutRouteConfig) {
	checkout := engine.Group("/api/checkout")
	{
		checkout.POST("/create", cfg.CheckoutHandler.Create)
		checkout.GET("/confirm", cfg.CheckoutHandler.Confirm)
	}

	engine.POST("/api/webhooks/stripe", cfg.WebhookHandler.Handle)
}
