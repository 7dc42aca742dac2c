package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// PDFCoBaseURL is the HTML-to-PDF conversion endpoint of the PDF.co API
	PDFCoBaseURL = "https://api.pdf.co/v1/pdf/convert/from/html"

	// DefaultFileName is the name PDF.co assigns to the generated document
	DefaultFileName = "report.pdf"
)

// PDFCoConfig holds configuration for the PDF.co renderer.
type PDFCoConfig struct {
	APIKey         string
	BaseURL        string // overridable for tests
	RequestTimeout time.Duration
}

// PDFCo renders HTML to PDF via the PDF.co conversion API. The returned URL
// points at PDF.co's hosted copy, which expires after a retention window.
type PDFCo struct {
	config PDFCoConfig
	client *http.Client
	logger *slog.Logger
}

// NewPDFCo creates a new PDF.co renderer.
func NewPDFCo(config PDFCoConfig, logger *slog.Logger) (*PDFCo, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("pdf.co API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = PDFCoBaseURL
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 60 * time.Second
	}

	return &PDFCo{
		config: config,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		logger: logger,
	}, nil
}

// Render submits the HTML document for conversion and returns the hosted PDF URL.
func (r *PDFCo) Render(ctx context.Context, html string) (string, error) {
	reqBody := pdfcoRequest{
		HTML: html,
		Name: DefaultFileName,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", WrapError("marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", WrapError("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", r.config.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", WrapError("execute request", EUnavailable)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", WrapError("read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", WrapError("execute request", r.mapHTTPError(resp.StatusCode, respBytes))
	}

	var result pdfcoResponse
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", WrapError("parse response", err)
	}

	// PDF.co reports some failures inside a 200 body
	if result.Error {
		return "", WrapError("convert", fmt.Errorf("%w: %s", EBadDocument, result.Message))
	}
	if result.URL == "" {
		return "", WrapError("convert", fmt.Errorf("%w: no URL in response", EBadDocument))
	}

	r.logger.Debug("pdf rendered", "url", result.URL)

	return result.URL, nil
}

// mapHTTPError maps HTTP status codes to render errors.
func (r *PDFCo) mapHTTPError(statusCode int, body []byte) error {
	var errResp pdfcoResponse
	_ = json.Unmarshal(body, &errResp)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusPaymentRequired:
		return EUnauthorized
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", EBadDocument, errResp.Message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return EUnavailable
	default:
		return fmt.Errorf("API error (status %d): %s", statusCode, errResp.Message)
	}
}

// API request/response types

type pdfcoRequest struct {
	HTML string `json:"html"`
	Name string `json:"name"`
}

type pdfcoResponse struct {
	URL     string `json:"url"`
	Error   bool   `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

var _ Renderer = (*PDFCo)(nil)
