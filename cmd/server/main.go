package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmotts/insights/internal"
	"github.com/dmotts/insights/internal/archive"
	"github.com/dmotts/insights/internal/content"
	"github.com/dmotts/insights/internal/content/mock"
	"github.com/dmotts/insights/internal/content/openai"
	"github.com/dmotts/insights/internal/handler"
	"github.com/dmotts/insights/internal/metrics"
	"github.com/dmotts/insights/internal/middleware"
	"github.com/dmotts/insights/internal/notify"
	"github.com/dmotts/insights/internal/pipeline"
	"github.com/dmotts/insights/internal/render"
	"github.com/dmotts/insights/internal/storage"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// ==========================================================================
	// Database (report archive)
	// ==========================================================================

	var db *sql.DB
	if cfg.EnableDatabase {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		if err := internal.RunMigrations(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database ready")
	} else {
		logger.Info("Database disabled")
	}

	// ==========================================================================
	// Object storage
	// ==========================================================================

	var store storage.Storage
	if cfg.EnableStorage {
		switch cfg.StorageProvider {
		case storage.ProviderS3:
			store, err = storage.NewS3Storage(storage.S3Config{
				Endpoint:        cfg.S3Endpoint,
				Region:          cfg.S3Region,
				AccessKeyID:     cfg.S3AccessKeyID,
				SecretAccessKey: cfg.S3SecretAccessKey,
				Bucket:          cfg.S3Bucket,
				PublicURL:       cfg.S3PublicURL,
			}, logger)
		default:
			store, err = storage.NewLocalStorage(storage.LocalConfig{
				BasePath: cfg.LocalStoragePath,
				BaseURL:  cfg.LocalStorageURL,
			}, logger)
		}
		if err != nil {
			return fmt.Errorf("storage initialization failed: %w", err)
		}
	} else {
		logger.Info("Storage disabled")
	}

	// ==========================================================================
	// Content generation
	// ==========================================================================

	var generator content.Generator
	if cfg.EnableContent {
		switch cfg.ContentProvider {
		case "openai":
			generator, err = openai.New(openai.Config{
				APIKey: cfg.OpenAIAPIKey,
				Model:  cfg.OpenAIModel,
				ProviderConfig: content.ProviderConfig{
					MaxRetries:     cfg.ContentMaxRetries,
					RetryBaseDelay: cfg.ContentRetryDelay,
					RequestTimeout: cfg.ContentTimeout,
				},
			}, logger)
			if err != nil {
				return fmt.Errorf("content provider initialization failed: %w", err)
			}
		default:
			generator = mock.New(logger)
		}
		logger.Info("Content generation enabled", "provider", cfg.ContentProvider)

		// Optional Redis cache in front of the provider
		if cfg.RedisURL != "" {
			cached, err := content.NewCachedGenerator(generator, cfg.RedisURL, cfg.ContentCacheTTL, logger)
			if err != nil {
				return fmt.Errorf("content cache initialization failed: %w", err)
			}
			defer cached.Close()
			generator = cached
		}
	} else {
		logger.Info("Content generation disabled")
	}

	// ==========================================================================
	// PDF rendering
	// ==========================================================================

	var renderer render.Renderer
	if cfg.EnablePDF {
		switch cfg.PDFProvider {
		case "pdfco":
			renderer, err = render.NewPDFCo(render.PDFCoConfig{
				APIKey:         cfg.PDFCoAPIKey,
				RequestTimeout: cfg.PDFTimeout,
			}, logger)
			if err != nil {
				return fmt.Errorf("pdf renderer initialization failed: %w", err)
			}
		default:
			renderer = render.NewMock()
		}
		logger.Info("PDF rendering enabled", "provider", cfg.PDFProvider)
	} else {
		logger.Info("PDF rendering disabled")
	}

	// ==========================================================================
	// Archives and notifiers
	// ==========================================================================

	var archives []archive.Archive
	if db != nil {
		archives = append(archives, archive.NewPostgresArchive(db, logger))
	}
	if store != nil {
		archives = append(archives, archive.NewObjectArchive(store, logger))
	}

	var notifiers []notify.Notifier
	if cfg.EnableEmail {
		mailer := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		}, logger)

		notifiers = append(notifiers, notify.NewClientNotifier(mailer))
		if cfg.AdminEmail != "" {
			notifiers = append(notifiers, notify.NewAdminNotifier(mailer, cfg.AdminEmail))
		}
		logger.Info("Email notifications enabled", "notifiers", len(notifiers))
	} else {
		logger.Info("Email notifications disabled")
	}

	// ==========================================================================
	// Pipeline and handlers
	// ==========================================================================

	reportPipeline := pipeline.New(pipeline.Config{
		Generator:     generator,
		Renderer:      renderer,
		Documents:     store,
		Archives:      archives,
		Notifiers:     notifiers,
		QuestionCount: cfg.QuestionCount,
		Timeout:       cfg.PipelineTimeout,
		Logger:        logger,
	})

	reportHandler := handler.NewReportHandler(reportPipeline, cfg.QuestionCount, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Locally stored report documents
	if cfg.EnableStorage && cfg.StorageProvider == storage.ProviderLocal {
		filesFS := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	reportHandler.RegisterRoutes(mux)

	// Metrics endpoint with optional basic auth
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// ==========================================================================
	// Middleware stack
	// ==========================================================================

	isSecure := cfg.Env != "development"

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, logger)
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter, logger)

	// Rate limit only report generation; lookups are cheap
	rateLimited := http.NewServeMux()
	rateLimited.Handle("POST /generate_report", rateLimitMw.Limit(mux))
	rateLimited.Handle("/", mux)

	requestIDMw := middleware.NewRequestIDMiddleware()
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	recoverMw := middleware.NewRecoverMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)

	root := requestIDMw.Handler(
		recoverMw.Handler(
			securityMw.Handler(
				loggingMw.Handler(
					metrics.Middleware(rateLimited),
				),
			),
		),
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
