package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/lindenpm/linden/internal/api/handlers"
	"github.com/lindenpm/linden/internal/api/middleware"
	"github.com/lindenpm/linden/internal/auth"
	"github.com/lindenpm/linden/internal/billing"
	"github.com/lindenpm/linden/internal/database/models"
	"github.com/lindenpm/linden/internal/maintenance"
	"github.com/lindenpm/linden/internal/storage"
	"github.com/lindenpm/linden/pkg/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	Config         *config.Config
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	GoogleVerifier auth.GoogleVerifier
	ResetMailer    handlers.ResetMailer
	Maintenance    *maintenance.Service
	Setup          *billing.SetupService
	Blobs          storage.BlobStore
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.Config.RateLimit.Requests > 0 {
		r.Use(middleware.RateLimit(cfg.Config.RateLimit.Requests, cfg.Config.RateLimit.WindowSeconds))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.GoogleVerifier, cfg.ResetMailer, cfg.Logger)
	userHandler := handlers.NewUserHandler(cfg.AuthService, cfg.Config.Admin.SetupKey)
	propertyHandler := handlers.NewPropertyHandler(cfg.DB)
	requestHandler := handlers.NewRequestHandler(cfg.Maintenance)
	cleanupHandler := handlers.NewCleanupHandler(cfg.Maintenance, cfg.Config.Cleanup.Secret, cfg.Config.Cleanup.Retention(), cfg.Logger)
	paymentHandler := handlers.NewPaymentHandler(cfg.DB, cfg.Setup)
	uploadHandler := handlers.NewUploadHandler(cfg.Blobs)
	webhookHandler := handlers.NewWebhookHandler(cfg.DB, cfg.Config.Stripe.WebhookSecret, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Processor webhooks authenticate by signature, not session
	r.Post("/webhooks/stripe", webhookHandler.HandleStripe)

	// Retention purge for external schedulers, bearer-secret guarded
	r.Post("/internal/cleanup", cleanupHandler.Run)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/google", authHandler.GoogleLogin)
		r.Post("/auth/logout", authHandler.Logout)
		r.Post("/auth/password-reset", authHandler.RequestPasswordReset)
		r.Post("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

		// Maintenance request intake is public: requesters do not need
		// an account to report a problem.
		r.Post("/maintenance-requests", requestHandler.Create)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			// User endpoints
			r.Get("/me", userHandler.Me)
			r.Put("/me/address", userHandler.UpdateAddress)

			// Payment setup wizard. Only tenants move the wizard forward;
			// managers can still read an application for review.
			r.Route("/applications", func(r chi.Router) {
				r.Get("/{id}", paymentHandler.GetApplication)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireUserType(models.UserTypeTenant))
					r.Post("/", paymentHandler.CreateApplication)
					r.Post("/{id}/add-checking-account", paymentHandler.AddCheckingAccount)
					r.Post("/{id}/security-deposit", paymentHandler.ChargeDeposit)
					r.Post("/{id}/add-credit-card", paymentHandler.AddCreditCard)
				})
			})

			r.Get("/payments", paymentHandler.ListPayments)

			r.Post("/uploads", uploadHandler.Upload)

			r.Get("/properties", propertyHandler.ListProperties)

			// Management endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))

				r.Route("/maintenance-requests", func(r chi.Router) {
					r.Get("/", requestHandler.List)
					r.Get("/{id}", requestHandler.Get)
					r.Patch("/{id}", requestHandler.Update)
					r.Delete("/{id}", requestHandler.Delete)
				})

				r.Route("/owners", func(r chi.Router) {
					r.Get("/", propertyHandler.ListOwners)
					r.Post("/", propertyHandler.CreateOwner)
					r.Get("/{id}", propertyHandler.GetOwner)
					r.Post("/{id}/properties", propertyHandler.AddProperty)
					r.Post("/{id}/members", propertyHandler.AddMember)
				})

				r.Put("/properties/{id}/status", propertyHandler.UpdatePropertyStatus)
			})
		})

		// Admin bootstrap is guarded by the setup key, not a session
		r.Post("/admin/promote", userHandler.Promote)
	})

	return &Router{r}
}
