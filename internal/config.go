package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmotts/insights/internal/domain"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Application base URL (for links in emails and responses)
	BaseURL string

	// Questionnaire length; clamped to [domain.MinQuestions, domain.MaxQuestions]
	QuestionCount int

	// Upper bound for one report assembly run
	PipelineTimeout time.Duration

	// Feature flags. Each disabled feature degrades its pipeline stage
	// instead of failing requests.
	EnableContent  bool
	EnablePDF      bool
	EnableStorage  bool
	EnableDatabase bool
	EnableEmail    bool

	// Content Generation Configuration
	ContentProvider   string // "openai" or "mock"
	OpenAIAPIKey      string
	OpenAIModel       string
	ContentMaxRetries int
	ContentRetryDelay time.Duration
	ContentTimeout    time.Duration
	RedisURL          string // Optional content cache; empty disables caching
	ContentCacheTTL   time.Duration

	// PDF Rendering Configuration
	PDFProvider string // "pdfco" or "mock"
	PDFCoAPIKey string
	PDFTimeout  time.Duration

	// Storage Configuration
	StorageProvider string // "local" or "s3"

	// Local Storage (development)
	LocalStoragePath string // Base directory for local object storage
	LocalStorageURL  string // Base URL for accessing local objects

	// S3-compatible Storage (production)
	S3Endpoint        string // Custom endpoint for R2/MinIO; empty for AWS
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3PublicURL       string // Optional custom domain URL

	// Database (report archive)
	DatabaseURL string

	// SMTP Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Admin notification recipient
	AdminEmail string

	// Rate limit for report generation, per client IP
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 5000),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		// Base URL defaults to localhost for development
		BaseURL: getEnv("BASE_URL", "http://localhost:5000"),

		QuestionCount:   getEnvInt("QUESTION_COUNT", domain.MinQuestions),
		PipelineTimeout: getEnvDuration("PIPELINE_TIMEOUT", 3*time.Minute),

		// All features on by default; deployments turn off what they
		// lack credentials for
		EnableContent:  getEnvBool("ENABLE_CONTENT", true),
		EnablePDF:      getEnvBool("ENABLE_PDF", true),
		EnableStorage:  getEnvBool("ENABLE_STORAGE", true),
		EnableDatabase: getEnvBool("ENABLE_DATABASE", true),
		EnableEmail:    getEnvBool("ENABLE_EMAIL", true),

		// Content generation defaults
		ContentProvider:   getEnv("CONTENT_PROVIDER", "mock"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ContentMaxRetries: getEnvInt("CONTENT_MAX_RETRIES", 3),
		ContentRetryDelay: getEnvDuration("CONTENT_RETRY_BASE_DELAY", 1*time.Second),
		ContentTimeout:    getEnvDuration("CONTENT_REQUEST_TIMEOUT", 60*time.Second),
		RedisURL:          getEnv("REDIS_URL", ""),
		ContentCacheTTL:   getEnvDuration("CONTENT_CACHE_TTL", 5*time.Minute),

		// PDF rendering defaults
		PDFProvider: getEnv("PDF_PROVIDER", "mock"),
		PDFCoAPIKey: getEnv("PDFCO_API_KEY", ""),
		PDFTimeout:  getEnvDuration("PDF_REQUEST_TIMEOUT", 60*time.Second),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:5000/files"),

		// S3 configuration (production only)
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		// SMTP defaults for Mailhog (development)
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@dmotts.dev"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "AI Insights"),

		AdminEmail: getEnv("ADMIN_EMAIL", ""),

		// Rate limit defaults: 10 reports per IP per hour
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Clamp the questionnaire length rather than failing startup
	if cfg.QuestionCount < domain.MinQuestions {
		cfg.QuestionCount = domain.MinQuestions
	}
	if cfg.QuestionCount > domain.MaxQuestions {
		cfg.QuestionCount = domain.MaxQuestions
	}

	// Validate content provider configuration
	if cfg.EnableContent {
		if cfg.ContentProvider == "openai" {
			if cfg.OpenAIAPIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY is required when CONTENT_PROVIDER is 'openai'")
			}
		} else if cfg.ContentProvider != "mock" {
			return nil, fmt.Errorf("CONTENT_PROVIDER must be either 'openai' or 'mock', got: %s", cfg.ContentProvider)
		}
	}

	// Validate PDF provider configuration
	if cfg.EnablePDF {
		if cfg.PDFProvider == "pdfco" {
			if cfg.PDFCoAPIKey == "" {
				return nil, fmt.Errorf("PDFCO_API_KEY is required when PDF_PROVIDER is 'pdfco'")
			}
		} else if cfg.PDFProvider != "mock" {
			return nil, fmt.Errorf("PDF_PROVIDER must be either 'pdfco' or 'mock', got: %s", cfg.PDFProvider)
		}
	}

	// Validate storage configuration
	if cfg.EnableStorage {
		if cfg.StorageProvider == "s3" {
			if cfg.S3AccessKeyID == "" {
				return nil, fmt.Errorf("S3_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 's3'")
			}
			if cfg.S3SecretAccessKey == "" {
				return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 's3'")
			}
			if cfg.S3Bucket == "" {
				return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_PROVIDER is 's3'")
			}
			// Document URLs are archived and mailed; presigned URLs expire,
			// so a public base URL is mandatory for the s3 provider.
			if cfg.S3PublicURL == "" {
				return nil, fmt.Errorf("S3_PUBLIC_URL is required when STORAGE_PROVIDER is 's3'")
			}
		} else if cfg.StorageProvider != "local" {
			return nil, fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 's3', got: %s", cfg.StorageProvider)
		}
	}

	// Validate database configuration
	if cfg.EnableDatabase && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DATABASE is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
