package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tailorcv/internal/application/quota"
	"tailorcv/internal/application/tailor"
	"tailorcv/internal/shared/biztime"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
	"tailorcv/internal/shared/utils"
)

// TailorExecutor runs one tailoring request.
type TailorExecutor interface {
	Execute(ctx context.Context, cmd tailor.TailorCommand) (*tailor.Result, error)
}

type TailorHandler struct {
	tailorSvc TailorExecutor
	verifier  TokenVerifier
	guard     *quota.Guard
	logger    logger.Interface
}

func NewTailorHandler(tailorSvc TailorExecutor, verifier TokenVerifier, guard *quota.Guard, log logger.Interface) *TailorHandler {
	return &TailorHandler{
		tailorSvc: tailorSvc,
		verifier:  verifier,
		guard:     guard,
		logger:    log,
	}
}

// Tailor handles POST /api/tailor. The quota counter advances only for
// outcomes where the model call actually happened; input validation
// failures leave it untouched.
func (h *TailorHandler) Tailor(c *gin.Context) {
	pro := h.activeProToken(c)

	dailyCookie, _ := c.Cookie(quota.DailyCookieName)
	proCookie, _ := c.Cookie(quota.ProCookieName)

	decision, err := h.guard.Check(pro, dailyCookie, proCookie)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := tailor.TailorCommand{
		JobDescription: c.PostForm("job_description"),
		ResumeText:     c.PostForm("resume_text"),
	}

	result, err := h.tailorSvc.Execute(c.Request.Context(), cmd)

	outcome := quota.OutcomeSuccess
	switch {
	case apperrors.IsValidationError(err):
		outcome = quota.OutcomeRejected
	case err != nil:
		outcome = quota.OutcomeUpstreamFailure
	}

	updates, commitErr := decision.Commit(outcome)
	if commitErr != nil {
		h.logger.Errorw("failed to encode quota cookie", "error", commitErr)
	}
	for _, u := range updates {
		c.SetCookie(u.Name, u.Value, u.MaxAge, "/", "", false, true)
	}
	if len(updates) > 0 {
		for name, value := range decision.Headers() {
			c.Header(name, value)
		}
	}

	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoStore(c)
	c.JSON(http.StatusOK, result)
}

// activeProToken returns the quota view of the caller's pro token, or nil
// when no valid pro window was presented. A bad token is not an error
// here; the request simply falls back to the free tier.
func (h *TailorHandler) activeProToken(c *gin.Context) *quota.ProToken {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		token = c.PostForm("token")
	}
	if token == "" {
		return nil
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Debugw("ignoring invalid access token on tailor request")
		return nil
	}
	if !claims.ActivePro(biztime.NowUTC()) {
		return nil
	}
	return &quota.ProToken{
		SID:       claims.SID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
