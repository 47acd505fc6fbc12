package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/auth"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/cache"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/config"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/middleware"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/observability"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/services"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/utils"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/validator"
	"github.com/SAP-F-2025/quiz-attempt-service/pkg"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.IsProduction())
	slogger := utils.ToSlogLogger(logger)

	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create zap logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Environment, slogger)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Quiz catalog, optionally behind the Redis cache
	var quizRepo repositories.QuizRepository = postgres.NewQuizPostgreSQL(db)
	if cfg.CacheEnabled {
		redisClient, err := pkg.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, quiz cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cached := cache.NewCachedQuizRepository(quizRepo, cache.NewRedisCache(redisClient, zapLogger), cfg.CacheTTL, zapLogger)
			// Entries written by a previous process may predate catalog edits
			if err := cached.InvalidateAll(ctx); err != nil {
				logger.Warn("Failed to flush quiz cache", "error", err)
			}
			quizRepo = cached
		}
	}
	repo := postgres.NewRepository(db, quizRepo)

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		log.Fatalf("Failed to create event publisher: %v", err)
	}
	notifier := services.NewNotificationEventService(publisher, slogger)

	attemptService := services.NewAttemptService(repo, notifier, slogger, validator.New(), services.AttemptConfig{
		EnforceTimeLimit: cfg.Quiz.EnforceTimeLimit,
		SubmitGrace:      cfg.Quiz.SubmitGrace,
		NotifyTimeout:    cfg.Quiz.CertificateNotifyTimeout,
	})

	verifier, err := auth.NewVerifier(cfg.Auth, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	handlers.NewHandlerManager(attemptService, logger).SetupRoutes(router, auth.Middleware(verifier, logger))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Let in-flight certificate notifications finish before closing the publisher
	attemptService.Wait()
	if err := publisher.Close(); err != nil {
		logger.Warn("Failed to close event publisher", "error", err)
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", "error", err)
		}
	}
	logger.Info("Server exited")
}

func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
