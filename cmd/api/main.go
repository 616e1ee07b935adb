package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-internship-backend/config"
	v1 "go-internship-backend/internal/delivery/http/v1"
	"go-internship-backend/internal/repository/postgres"
	"go-internship-backend/internal/repository/postgres/migrations"
	"go-internship-backend/internal/usecase"
	"go-internship-backend/pkg/audit"
	"go-internship-backend/pkg/database"
	"go-internship-backend/pkg/logger"
	"go-internship-backend/pkg/redis"
	"go-internship-backend/pkg/token"

	"github.com/go-playground/validator/v10"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting internship backend", "port", cfg.Port)
	auditLog := audit.Init("internship-backend")
	defer auditLog.Sync()

	// 3. Setup Database
	if err := database.RunMigrations(context.Background(), cfg.DBUrl, migrations.Migrations); err != nil {
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; rate limiter falls back to in-memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting uses in-memory fallback", "error", err)
	}
	defer redis.Close()

	// 5. Setup Token Service (signing key is required; fail fast)
	tokens, err := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Log.Error("Failed to initialise token service", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	applicantRepo := postgres.NewApplicantRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 7. Setup UseCases
	validate := validator.New()
	authUC := usecase.NewAuthUsecase(applicantRepo, tokens, validate)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, applicantRepo)

	// 8. Background reference-list reconciliation (orphan repair)
	reconciler := usecase.NewReferenceReconciler(applicantRepo, applicationRepo, cfg.ReconcileInterval)
	go reconciler.Start(context.Background())

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ApplicationUC: applicationUC,
		Tokens:        tokens,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
