package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/internal/constants"
	"github.com/roeeblo/smart-job-tracker/internal/dto"
	"github.com/roeeblo/smart-job-tracker/internal/service"
)

type UserHandler struct {
	users *service.UserService
	// clientURL receives the browser after a successful verification.
	clientURL string
}

func NewUserHandler(users *service.UserService, clientURL string) *UserHandler {
	return &UserHandler{users: users, clientURL: clientURL}
}

// Register handles POST /users.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Profile handles GET /profile for the authenticated user.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyEmail handles GET /verify?token=. The link is opened in a
// browser, so success lands on the SPA login page.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	if err := h.users.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.clientURL+"/login?verified=1")
}

// ResendVerification handles POST /verify/resend.
func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.users.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildOKResponse())
}
