package router

import (
	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/internal/middleware"
)

func (r *Router) setupImportRoutes(engine *gin.Engine) {
	imports := engine.Group("/import")
	imports.Use(middleware.JWTAuth(r.tokens))
	{
		imports.POST("/csv", r.imports.ImportCSV)
		imports.POST("/json", r.imports.ImportJSON)
	}
}
