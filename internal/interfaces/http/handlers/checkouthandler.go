package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorcv/internal/application/checkout/usecases"
	"tailorcv/internal/shared/logger"
	"tailorcv/internal/shared/utils"
)

// CreateCheckoutExecutor starts a checkout session for a plan.
type CreateCheckoutExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateCheckoutCommand) (*usecases.CreateCheckoutResult, error)
}

// ConfirmSessionExecutor reconciles a completed session into a token.
type ConfirmSessionExecutor interface {
	Execute(ctx context.Context, cmd usecases.ConfirmSessionCommand) (*usecases.ConfirmSessionResult, error)
}

type CheckoutHandler struct {
	createUC  CreateCheckoutExecutor
	confirmUC ConfirmSessionExecutor
	logger    logger.Interface
}

func NewCheckoutHandler(createUC CreateCheckoutExecutor, confirmUC ConfirmSessionExecutor, log logger.Interface) *CheckoutHandler {
	return &CheckoutHandler{
		createUC:  createUC,
		confirmUC: confirmUC,
		logger:    log,
	}
}

type createCheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// Create handles POST /api/checkout/create.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Missing plan.")
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateCheckoutCommand{Plan: req.Plan})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoStore(c)
	c.JSON(http.StatusOK, gin.H{"checkoutUrl": result.CheckoutURL})
}

type confirmResponse struct {
	Token   string `json:"token"`
	Type    string `json:"type"`
	Exp     int64  `json:"exp"`
	Credits int    `json:"credits,omitempty"`
}

// Confirm handles GET /api/checkout/confirm?session_id=...&email=...
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	cmd := usecases.ConfirmSessionCommand{
		SessionID: c.Query("session_id"),
		Email:     c.Query("email"),
	}

	result, err := h.confirmUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoStore(c)
	c.JSON(http.StatusOK, confirmResponse{
		Token:   result.Token,
		Type:    string(result.Kind),
		Exp:     result.Exp,
		Credits: result.Credits,
	})
}
