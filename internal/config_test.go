package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmotts/insights/internal/domain"
)

// clearEnv blanks every variable NewConfig reads so tests see defaults plus
// whatever they set explicitly.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"ENV", "PORT", "LOG_LEVEL", "BASE_URL",
		"QUESTION_COUNT", "PIPELINE_TIMEOUT",
		"ENABLE_CONTENT", "ENABLE_PDF", "ENABLE_STORAGE", "ENABLE_DATABASE", "ENABLE_EMAIL",
		"CONTENT_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL",
		"CONTENT_MAX_RETRIES", "CONTENT_RETRY_BASE_DELAY", "CONTENT_REQUEST_TIMEOUT",
		"REDIS_URL", "CONTENT_CACHE_TTL",
		"PDF_PROVIDER", "PDFCO_API_KEY", "PDF_REQUEST_TIMEOUT",
		"STORAGE_PROVIDER", "LOCAL_STORAGE_PATH", "LOCAL_STORAGE_URL",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
		"DATABASE_URL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM", "SMTP_FROM_NAME",
		"ADMIN_EMAIL", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW",
		"METRICS_USERNAME", "METRICS_PASSWORD",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
	t.Setenv("ENABLE_DATABASE", "false")
}

func TestNewConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, domain.MinQuestions, cfg.QuestionCount)
	assert.Equal(t, 3*time.Minute, cfg.PipelineTimeout)
	assert.Equal(t, "mock", cfg.ContentProvider)
	assert.Equal(t, "mock", cfg.PDFProvider)
	assert.Equal(t, "local", cfg.StorageProvider)
	assert.True(t, cfg.EnableContent)
	assert.True(t, cfg.EnableEmail)
	assert.Equal(t, 10, cfg.RateLimitMax)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
}

func TestNewConfigQuestionCountClamped(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"below minimum", "1", domain.MinQuestions},
		{"above maximum", "20", domain.MaxQuestions},
		{"in range", "5", 5},
		{"not a number", "lots", domain.MinQuestions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("QUESTION_COUNT", tt.value)

			cfg, err := NewConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.QuestionCount)
		})
	}
}

func TestNewConfigProviderValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "openai without key",
			env:     map[string]string{"CONTENT_PROVIDER": "openai"},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "unknown content provider",
			env:     map[string]string{"CONTENT_PROVIDER": "bard"},
			wantErr: "CONTENT_PROVIDER",
		},
		{
			name:    "pdfco without key",
			env:     map[string]string{"PDF_PROVIDER": "pdfco"},
			wantErr: "PDFCO_API_KEY",
		},
		{
			name:    "s3 without credentials",
			env:     map[string]string{"STORAGE_PROVIDER": "s3"},
			wantErr: "S3_ACCESS_KEY_ID",
		},
		{
			name: "s3 without bucket",
			env: map[string]string{
				"STORAGE_PROVIDER":     "s3",
				"S3_ACCESS_KEY_ID":     "key",
				"S3_SECRET_ACCESS_KEY": "secret",
			},
			wantErr: "S3_BUCKET",
		},
		{
			name: "s3 without public url",
			env: map[string]string{
				"STORAGE_PROVIDER":     "s3",
				"S3_ACCESS_KEY_ID":     "key",
				"S3_SECRET_ACCESS_KEY": "secret",
				"S3_BUCKET":            "reports",
			},
			wantErr: "S3_PUBLIC_URL",
		},
		{
			name:    "database enabled without url",
			env:     map[string]string{"ENABLE_DATABASE": "true"},
			wantErr: "DATABASE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewConfigDisabledFeaturesSkipValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENABLE_CONTENT", "false")
	t.Setenv("ENABLE_PDF", "false")
	t.Setenv("ENABLE_STORAGE", "false")
	t.Setenv("CONTENT_PROVIDER", "openai")
	t.Setenv("PDF_PROVIDER", "pdfco")
	t.Setenv("STORAGE_PROVIDER", "s3")

	_, err := NewConfig()
	assert.NoError(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "90s")

	assert.Equal(t, "value", getEnv("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("TEST_MISSING", "fallback"))
	assert.Equal(t, 42, getEnvInt("TEST_INT", 7))
	assert.Equal(t, 7, getEnvInt("TEST_MISSING", 7))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, getEnvDuration("TEST_MISSING", time.Minute))
}
