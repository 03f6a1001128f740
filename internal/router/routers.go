package router

import (
	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/config"
	"github.com/roeeblo/smart-job-tracker/internal/handler"
	"github.com/roeeblo/smart-job-tracker/internal/middleware"
	"github.com/roeeblo/smart-job-tracker/internal/service"
)

// Router wires handlers onto the gin engine.
type Router struct {
	cfg     *config.Config
	tokens  *service.TokenService
	health  *handler.HealthHandler
	auth    *handler.AuthHandler
	users   *handler.UserHandler
	oauth   *handler.OAuthHandler
	jobs    *handler.JobHandler
	imports *handler.ImportHandler
}

func NewRouter(
	cfg *config.Config,
	tokens *service.TokenService,
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	users *handler.UserHandler,
	oauth *handler.OAuthHandler,
	jobs *handler.JobHandler,
	imports *handler.ImportHandler,
) *Router {
	return &Router{
		cfg:     cfg,
		tokens:  tokens,
		health:  health,
		auth:    auth,
		users:   users,
		oauth:   oauth,
		jobs:    jobs,
		imports: imports,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORS(r.cfg.CORS.AllowedOrigins))

	engine.GET("/health", r.health.Health)

	r.setupAuthRoutes(engine)
	r.setupJobRoutes(engine)
	r.setupImportRoutes(engine)

	return engine
}
