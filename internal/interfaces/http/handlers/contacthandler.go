package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorcv/internal/application/contact"
	"tailorcv/internal/shared/logger"
	"tailorcv/internal/shared/utils"
)

// ContactSubmitter delivers one contact-form submission.
type ContactSubmitter interface {
	Submit(cmd contact.SubmitCommand) error
}

type ContactHandler struct {
	service ContactSubmitter
	logger  logger.Interface
}

func NewContactHandler(service ContactSubmitter, log logger.Interface) *ContactHandler {
	return &ContactHandler{service: service, logger: log}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Email and message are required.")
		return
	}

	subject := req.Subject
	if subject == "" && req.Name != "" {
		subject = "Message from " + req.Name
	}

	err := h.service.Submit(contact.SubmitCommand{
		Email:   req.Email,
		Subject: subject,
		Message: req.Message,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
