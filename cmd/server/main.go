package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lindenpm/linden/internal/api"
	"github.com/lindenpm/linden/internal/auth"
	"github.com/lindenpm/linden/internal/billing"
	"github.com/lindenpm/linden/internal/database"
	"github.com/lindenpm/linden/internal/maintenance"
	"github.com/lindenpm/linden/internal/storage"
	"github.com/lindenpm/linden/internal/tasks"
	"github.com/lindenpm/linden/pkg/config"
	"github.com/lindenpm/linden/pkg/crypto"
	"github.com/lindenpm/linden/pkg/queue"
	"github.com/lindenpm/linden/pkg/util"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting linden server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Server.IsDevelopment() {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("auto-migration failed", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis, emails will not be delivered", "error", err)
	}

	// Asynq client for background job enqueuing
	asynqClient := queue.NewClient(&cfg.Redis)
	notifier := tasks.NewQueueNotifier(asynqClient)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)
	googleVerifier := auth.NewGoogleVerifier(&cfg.OAuth)

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}

	blobs, err := storage.NewS3Store(context.Background(), &cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize blob storage", "error", err)
		os.Exit(1)
	}

	maintenanceService := maintenance.NewService(db, blobs, notifier, logger)
	processor := billing.NewStripeProcessor(cfg.Stripe.SecretKey)
	setupService := billing.NewSetupService(db, processor, encryptor, logger)

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Config:         cfg,
		JWTService:     jwtService,
		AuthService:    authService,
		GoogleVerifier: googleVerifier,
		ResetMailer:    notifier,
		Maintenance:    maintenanceService,
		Setup:          setupService,
		Blobs:          blobs,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	asynqClient.Close()
	redisClient.Close()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
