package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/internal/middleware"
)

func (r *Router) setupAuthRoutes(engine *gin.Engine) {
	// Public credential endpoints share one limiter so an attacker
	// cannot rotate between them.
	limited := engine.Group("/")
	limited.Use(middleware.RateLimit(
		r.cfg.RateLimit.Request,
		time.Duration(r.cfg.RateLimit.Duration)*time.Second,
	))
	{
		limited.POST("/users", r.users.Register)
		limited.POST("/login", r.auth.Login)
		limited.POST("/refresh", r.auth.Refresh)
		limited.POST("/verify/resend", r.users.ResendVerification)
	}

	engine.GET("/verify", r.users.VerifyEmail)
	engine.GET("/auth/google", r.oauth.GoogleStart)
	engine.GET("/auth/google/callback", r.oauth.GoogleCallback)
	engine.POST("/auth/logout", r.auth.Logout)

	protected := engine.Group("/")
	protected.Use(middleware.JWTAuth(r.tokens))
	{
		protected.GET("/profile", r.users.Profile)
	}
}
