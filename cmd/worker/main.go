package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/lindenpm/linden/internal/database"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/mailer"
	"github.com/lindenpm/linden/internal/maintenance"
	"github.com/lindenpm/linden/internal/storage"
	"github.com/lindenpm/linden/internal/tasks"
	"github.com/lindenpm/linden/pkg/config"
	"github.com/lindenpm/linden/pkg/queue"
	"github.com/lindenpm/linden/pkg/util"
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

	logger.Info("starting linden worker")

	if err := util.ValidateCronExpr(cfg.Cleanup.CronExpr); err != nil {
		logger.Error("invalid cleanup cron expression", "expr", cfg.Cleanup.CronExpr, "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	blobs, err := storage.NewS3Store(context.Background(), &cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize blob storage", "error", err)
		os.Exit(1)
	}

	// The worker never enqueues notifications for its own writes.
	maintenanceService := maintenance.NewService(db, blobs, noopNotifier{}, logger)

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 10)

	// Create task handler
	sendgridMailer := mailer.NewSendGridMailer(&cfg.Email)
	handler := tasks.NewHandler(logger, sendgridMailer, maintenanceService,
		cfg.Email.FromName, cfg.Email.OpsAddress, cfg.Cleanup.Retention())

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Scheduler drives the nightly retention purge.
	scheduler := queue.NewScheduler(&cfg.Redis)
	if _, err := scheduler.Register(cfg.Cleanup.CronExpr, tasks.NewRetentionPurgeTask()); err != nil {
		logger.Error("failed to register purge schedule", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...",
		"cleanup_schedule", cfg.Cleanup.CronExpr,
		"retention", cfg.Cleanup.Retention(),
	)

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}

type noopNotifier struct{}

func (noopNotifier) RequestReceived(ctx context.Context, req *models.ManagerRequest) error {
	return nil
}

func (noopNotifier) StatusChanged(ctx context.Context, req *models.ManagerRequest, old models.RequestStatus) error {
	return nil
}
