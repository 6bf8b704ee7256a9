package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Topo-Jon/Pagos/docs" // Swagger docs
	"github.com/Topo-Jon/Pagos/internal/config"
	"github.com/Topo-Jon/Pagos/internal/database"
	"github.com/Topo-Jon/Pagos/internal/handlers"
	"github.com/Topo-Jon/Pagos/internal/jobs"
	"github.com/Topo-Jon/Pagos/internal/middleware"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/Topo-Jon/Pagos/internal/services"
	"github.com/Topo-Jon/Pagos/internal/storage"
	"github.com/Topo-Jon/Pagos/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Pagos API
// @version 1.0
// @description REST API for biweekly loan amortization and payment tracking

// @contact.name API Support

// @license.name MIT

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize local snapshot store
	snapshots, err := storage.NewSnapshotStore(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized snapshot store", "path", cfg.StoragePath)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, snapshots, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Standalone rate solver
			protected.POST("/solver/rate", h.Loan.SolveRate)

			// Loan lifecycle
			protected.POST("/loans", h.Loan.Create)
			protected.GET("/loans", h.Loan.Index)
			protected.GET("/loans/:loan_id", h.Loan.Show)
			protected.PUT("/loans/:loan_id", h.Loan.Update)
			protected.DELETE("/loans/:loan_id", h.Loan.Delete)
			protected.GET("/loans/:loan_id/summary", h.Loan.Summary)

			// Payment schedule and mutations
			protected.GET("/loans/:loan_id/payments", h.Payment.Index)
			protected.PATCH("/loans/:loan_id/payments/:payment_id/amount_paid", h.Payment.SetAmountPaid)
			protected.POST("/loans/:loan_id/payments/:payment_id/toggle", h.Payment.Toggle)

			// Exports (token accepted via query param for download links)
			protected.GET("/loans/:loan_id/export", h.Report.ExportSchedule)
			protected.GET("/loans/:loan_id/statement_pdf", h.Report.StatementPDF)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/jobs/status", h.Job.Status)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Log overdue payment counts every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		count, err := svcs.Payment.CountOverdue(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Warn("[Job] Overdue payments detected", "count", count)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
