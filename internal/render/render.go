// Package render turns assembled report content into a hosted PDF document.
//
// The package defines a Renderer interface with implementations for:
// - PDFCo: the PDF.co HTML-to-PDF conversion API
// - Mock: a canned renderer for testing and development
package render

import (
	"context"
	"errors"
	"fmt"
)

// Renderer converts an HTML document into a PDF and returns a URL where the
// PDF can be fetched. The URL's durability depends on the implementation;
// PDF.co URLs are transient and the pipeline archives a durable copy itself.
type Renderer interface {
	Render(ctx context.Context, html string) (string, error)
}

// Error codes for render operations.
var (
	// EUnavailable indicates the rendering service is unreachable or degraded
	EUnavailable = errors.New("render service temporarily unavailable")

	// EUnauthorized indicates invalid API credentials
	EUnauthorized = errors.New("render provider authentication failed")

	// EBadDocument indicates the service rejected the submitted HTML
	EBadDocument = errors.New("render service rejected document")
)

// WrapError wraps an error with context about the render operation.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("render %s: %w", operation, err)
}
