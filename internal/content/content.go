// Package content defines the ContentGenerator interface for producing report
// text from questionnaire answers, along with the section extraction logic
// that turns free-form generated text into a fully populated section mapping.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmotts/insights/internal/domain"
)

// Generator produces report content for an industry and a set of
// questionnaire answers. Implementations call an external LLM API or return
// canned content; the pipeline treats any error as degraded content.
type Generator interface {
	// Generate returns the raw report content, typically an HTML fragment.
	// Only the sections enabled in toggles need to be present in the output.
	Generate(ctx context.Context, industry string, answers []string, toggles domain.SectionToggles) (string, error)
}

// ProviderConfig contains common configuration for content providers.
type ProviderConfig struct {
	MaxRetries     int           // Maximum retry attempts for transient errors
	RetryBaseDelay time.Duration // Base delay for exponential backoff
	RequestTimeout time.Duration // Timeout for individual requests
}

// Error codes for content provider operations.
var (
	// ERateLimit indicates the API rate limit has been exceeded
	ERateLimit = errors.New("content provider rate limit exceeded")

	// ETimeout indicates the request timed out
	ETimeout = errors.New("content request timed out")

	// EUnavailable indicates the content service is temporarily unavailable
	EUnavailable = errors.New("content service temporarily unavailable")

	// EUnauthorized indicates invalid API credentials
	EUnauthorized = errors.New("content provider authentication failed")

	// EEmptyResponse indicates the provider returned no usable text
	EEmptyResponse = errors.New("content provider returned empty response")
)

// IsRetryable returns true if the error is a transient error that can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ERateLimit) ||
		errors.Is(err, ETimeout) ||
		errors.Is(err, EUnavailable)
}

// WrapError wraps an error with context about the content operation.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("content %s: %w", operation, err)
}
