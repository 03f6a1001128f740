package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/internal/constants"
	"github.com/roeeblo/smart-job-tracker/internal/service"
)

// JWTAuth validates the access token on protected routes and stores the
// authenticated user id in the request context. Every failure mode
// returns the same 401 body so callers cannot probe token internals.
func JWTAuth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) || parts[1] == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := tokens.Verify(parts[1], service.AccessToken)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(constants.CtxUserID, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		constants.BuildErrorResponse("unauthorized"))
}

// UserID pulls the authenticated user id set by JWTAuth.
func UserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.CtxUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
