package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorcv/internal/shared/logger"
	"tailorcv/internal/shared/utils"
)

// WebhookExecutor processes a raw processor webhook delivery.
type WebhookExecutor interface {
	Execute(ctx context.Context, rawBody []byte, sigHeader string) error
}

// SignatureHeader is the processor's signature header name.
const SignatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	webhookUC WebhookExecutor
	logger    logger.Interface
}

func NewWebhookHandler(webhookUC WebhookExecutor, log logger.Interface) *WebhookHandler {
	return &WebhookHandler{webhookUC: webhookUC, logger: log}
}

// Handle processes POST /api/webhooks/stripe. The body must be read raw;
// the signature covers the exact bytes the processor sent.
func (h *WebhookHandler) Handle(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Could not read request body.")
		return
	}

	if err := h.webhookUC.Execute(c.Request.Context(), rawBody, c.GetHeader(SignatureHeader)); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
