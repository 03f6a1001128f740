package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	configs "github.com/roeeblo/smart-job-tracker/config"
	"github.com/roeeblo/smart-job-tracker/internal/handler"
	"github.com/roeeblo/smart-job-tracker/internal/provider"
	"github.com/roeeblo/smart-job-tracker/internal/repository"
	"github.com/roeeblo/smart-job-tracker/internal/router"
	"github.com/roeeblo/smart-job-tracker/internal/service"
	"github.com/roeeblo/smart-job-tracker/pkg/database"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
	"github.com/roeeblo/smart-job-tracker/pkg/mailer"
	"github.com/roeeblo/smart-job-tracker/pkg/redis"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
	}, logger.GetLogger())
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Services
	tokenService := service.NewTokenService(config.JWT)
	mail := mailer.NewMailer(config.Mail)
	userService := service.NewUserService(userRepo, tokenService, mail, config.App.BaseURL)

	google := provider.NewGoogleClient(config.OAuth.GoogleClientID, config.OAuth.GoogleClientSecret)
	oauthService := service.NewOAuthService(
		userRepo,
		tokenService,
		google,
		config.OAuth.GoogleClientID,
		config.GoogleRedirectURI(),
		config.App.ClientURL,
	)

	jobCache := service.NewJobCache(redisClient, config.Redis.CacheTTL)
	jobService := service.NewJobService(jobRepo, jobCache, config.Import.DefaultSource)
	importService := service.NewImportService(jobRepo, jobCache, config.Import.DefaultSource)

	// Handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService, config.App.ClientURL)
	oauthHandler := handler.NewOAuthHandler(oauthService)
	jobHandler := handler.NewJobHandler(jobService)
	importHandler := handler.NewImportHandler(importService, config.Import.MaxUploadSize)

	r := router.NewRouter(
		config,
		tokenService,
		healthHandler,
		authHandler,
		userHandler,
		oauthHandler,
		jobHandler,
		importHandler,
	).Setup()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
