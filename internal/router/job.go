package router

import (
	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/internal/middleware"
)

func (r *Router) setupJobRoutes(engine *gin.Engine) {
	jobs := engine.Group("/jobs")
	jobs.Use(middleware.JWTAuth(r.tokens))
	{
		jobs.GET("", r.jobs.List)
		jobs.POST("", r.jobs.Create)
		jobs.PUT("/:id", r.jobs.Update)
		jobs.DELETE("/:id", r.jobs.Delete)
	}
}
