package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roeeblo/smart-job-tracker/internal/service"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
)

type OAuthHandler struct {
	oauth *service.OAuthService
}

func NewOAuthHandler(oauth *service.OAuthService) *OAuthHandler {
	return &OAuthHandler{oauth: oauth}
}

// GoogleStart handles GET /auth/google by redirecting to the Google
// consent screen.
func (h *OAuthHandler) GoogleStart(c *gin.Context) {
	authURL, err := h.oauth.AuthURL()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback handles GET /auth/google/callback. Success and failure
// both redirect back to the SPA; the browser is mid-flow and cannot
// usefully consume a JSON error.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	redirect, err := h.oauth.HandleCallback(c.Request.Context(), service.CallbackInput{
		Code:     c.Query("code"),
		State:    c.Query("state"),
		ErrParam: c.Query("error"),
	})
	if err != nil {
		logger.GetLogger().Warn("oauth callback failed",
			zap.Error(err),
		)
		c.Redirect(http.StatusFound, h.oauth.FailureRedirect(err))
		return
	}
	c.Redirect(http.StatusFound, redirect)
}
