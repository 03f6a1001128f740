package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/internal/constants"
	"github.com/roeeblo/smart-job-tracker/internal/dto"
	"github.com/roeeblo/smart-job-tracker/internal/service"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /refresh. It returns a new access token only;
// the refresh token stays valid until it expires.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout is
// client-side; the endpoint exists so clients have a uniform call.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, constants.BuildOKResponse())
}
