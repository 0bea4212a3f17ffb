package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"collabhub/internal/auth"
	"collabhub/internal/caching"
	"collabhub/internal/config"
	"collabhub/internal/graphql"
	"collabhub/internal/handlers"
	"collabhub/internal/jobs"
	"collabhub/internal/log"
	"collabhub/internal/mailer"
	"collabhub/internal/middleware"
	"collabhub/internal/repositories"
	"collabhub/internal/services"
	"collabhub/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("database connected")

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port,
		cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize mailer")
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	tokenRepo := repositories.NewResetTokenRepo(pool)
	workspaceRepo := repositories.NewWorkspaceRepo(pool)
	membershipRepo := repositories.NewMembershipRepo(pool)
	projectRepo := repositories.NewProjectRepo(pool)

	// Services
	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret)
	sessionSvc := services.NewSessionService(userRepo, codec, cacheSvc,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, logger)
	resetSvc := services.NewPasswordResetService(userRepo, tokenRepo, codec,
		smtpMailer, cacheSvc, cfg.Auth.ResetTTL, logger)
	directorySvc := services.NewDirectoryService(userRepo, logger)
	workspaceSvc := services.NewWorkspaceService(workspaceRepo, membershipRepo, userRepo, logger)
	projectSvc := services.NewProjectService(projectRepo, membershipRepo, logger)

	authenticator := middleware.NewAuthenticator(codec, userRepo, logger)

	// GraphQL surface
	resolver := graphql.NewResolver(sessionSvc, resetSvc, directorySvc, workspaceSvc, projectSvc, logger)
	schema, err := graphql.NewSchema(resolver)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build graphql schema")
	}
	graphqlHandler := graphql.NewHandler(schema, authenticator)

	// REST surface
	authHandlers := handlers.NewAuthHandlers(sessionSvc, cfg.Auth.RefreshTTL, cfg.IsProduction())
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logger)
	e.Use(middleware.RequestID())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/ready", healthHandlers.ReadinessCheck)

	authGroup := e.Group("/v1/auth")
	authGroup.POST("/login", authHandlers.Login)
	authGroup.POST("/refresh", authHandlers.Refresh)
	authGroup.POST("/logout", authHandlers.Logout)

	e.POST("/graphql", graphqlHandler.Serve)

	// Background jobs
	scheduler, err := jobs.NewScheduler(tokenRepo, cacheSvc, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize scheduler")
	}
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Str("environment", cfg.Environment).Msg("server starting")
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scheduler.Stop(); err != nil {
		logger.Error().Err(err).Msg("scheduler shutdown failed")
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
