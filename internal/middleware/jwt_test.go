package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roeeblo/smart-job-tracker/config"
	"github.com/roeeblo/smart-job-tracker/internal/service"
)

func newTestRouter(tokens *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", JWTAuth(tokens), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user id"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return engine
}

func newTestTokenService() *service.TokenService {
	return service.NewTokenService(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		StateSecret:   "state-secret",
		StateTTL:      time.Minute,
	})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tokens := newTestTokenService()
	router := newTestRouter(tokens)

	access, err := tokens.IssueAccess(42)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42}`, w.Body.String())
}

func TestJWTAuth_UniformUnauthorizedBody(t *testing.T) {
	tokens := newTestTokenService()
	router := newTestRouter(tokens)

	refresh, err := tokens.IssueRefresh(42)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":    "",
		"not bearer":        "Basic abc",
		"empty token":       "Bearer ",
		"garbage token":     "Bearer garbage",
		"refresh as access": "Bearer " + refresh,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
		})
	}
}
