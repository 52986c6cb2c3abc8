package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorcv/internal/infrastructure/tokens"
	"tailorcv/internal/shared/logger"
	"tailorcv/internal/shared/utils"
)

// TokenVerifier validates a presented access token.
type TokenVerifier interface {
	Verify(tokenString string) (*tokens.AccessClaims, error)
}

type VerifyHandler struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewVerifyHandler(verifier TokenVerifier, log logger.Interface) *VerifyHandler {
	return &VerifyHandler{verifier: verifier, logger: log}
}

// Verify handles GET /api/auth/verify?token=... It always answers 200;
// a bad token is a normal outcome for the client, not an error.
func (h *VerifyHandler) Verify(c *gin.Context) {
	utils.NoStore(c)

	claims, err := h.verifier.Verify(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"type":  claims.Kind,
		"exp":   claims.ExpiresAtUnix(),
	})
}
