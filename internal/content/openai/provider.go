// Package openai implements the content.Generator interface using OpenAI's
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmotts/insights/internal/content"
	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/metrics"
)

const (
	// APIBaseURL is the chat completions endpoint of the OpenAI API
	APIBaseURL = "https://api.openai.com/v1/chat/completions"

	// DefaultModel is the default model to use
	DefaultModel = "gpt-4o-mini"

	// MaxTokens caps the length of a generated report
	MaxTokens = 1500
)

// Config contains configuration for the OpenAI provider
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string // overridable for tests
	ProviderConfig content.ProviderConfig
}

// Provider implements the content.Generator interface using the OpenAI API
type Provider struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new OpenAI content provider
func New(config Config, logger *slog.Logger) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	// Set defaults
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = APIBaseURL
	}
	if config.ProviderConfig.MaxRetries == 0 {
		config.ProviderConfig.MaxRetries = 3
	}
	if config.ProviderConfig.RetryBaseDelay == 0 {
		config.ProviderConfig.RetryBaseDelay = 1 * time.Second
	}
	if config.ProviderConfig.RequestTimeout == 0 {
		config.ProviderConfig.RequestTimeout = 60 * time.Second
	}

	return &Provider{
		config: config,
		client: &http.Client{
			Timeout: config.ProviderConfig.RequestTimeout,
		},
		logger: logger,
	}, nil
}

// Generate produces report content for the industry and answers using the
// chat completions API. The returned string is the HTML fragment the model
// was instructed to emit; callers run it through content.ExtractSections.
func (p *Provider) Generate(ctx context.Context, industry string, answers []string, toggles domain.SectionToggles) (string, error) {
	reqBody := apiRequest{
		Model:     p.config.Model,
		MaxTokens: MaxTokens,
		Messages: []apiMessage{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: buildReportPrompt(industry, answers, toggles)},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", content.WrapError("marshal request", err)
	}

	resp, err := p.executeWithRetry(ctx, bodyBytes)
	if err != nil {
		return "", content.WrapError("execute request", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", content.WrapError("parse response", content.EEmptyResponse)
	}

	p.logger.Debug("report content generated",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return resp.Choices[0].Message.Content, nil
}

// executeWithRetry executes the API call with exponential backoff retry.
// The request is rebuilt from bodyBytes on every attempt.
func (p *Provider) executeWithRetry(ctx context.Context, bodyBytes []byte) (*apiResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.ProviderConfig.MaxRetries; attempt++ {
		resp, err := p.executeRequest(ctx, bodyBytes)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		// Only retry on retryable errors
		if !content.IsRetryable(err) {
			return nil, err
		}

		if attempt >= p.config.ProviderConfig.MaxRetries {
			break
		}

		// Exponential backoff: base * 2^(attempt-1)
		delay := p.config.ProviderConfig.RetryBaseDelay * time.Duration(1<<(attempt-1))
		p.logger.Info("Retrying content request", "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// executeRequest executes a single HTTP request against the API. Every
// attempt is counted, retries included.
func (p *Provider) executeRequest(ctx context.Context, bodyBytes []byte) (resp *apiResponse, err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ContentAPICalls.WithLabelValues(status).Inc()
	}()

	return p.doRequest(ctx, bodyBytes)
}

func (p *Provider) doRequest(ctx context.Context, bodyBytes []byte) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		// Network errors are typically retryable
		return nil, content.EUnavailable
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, p.mapHTTPError(resp.StatusCode, respBytes)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &apiResp, nil
}

// mapHTTPError maps HTTP status codes to content errors.
func (p *Provider) mapHTTPError(statusCode int, body []byte) error {
	var errResp apiErrorResponse
	_ = json.Unmarshal(body, &errResp)

	switch statusCode {
	case http.StatusUnauthorized:
		return content.EUnauthorized
	case http.StatusTooManyRequests:
		return content.ERateLimit
	case http.StatusRequestTimeout:
		return content.ETimeout
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout,
		http.StatusInternalServerError:
		return content.EUnavailable
	default:
		return fmt.Errorf("API error (status %d): %s", statusCode, errResp.Error.Message)
	}
}

// API request/response types

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Index        int        `json:"index"`
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
