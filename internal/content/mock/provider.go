// Package mock provides a canned content generator for testing and for
// deployments running with the LLM integration disabled.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmotts/insights/internal/domain"
)

// Provider is a mock content generator.
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	GenerateResponse string
	GenerateError    error

	// Call tracking for testing
	GenerateCalls int
}

// New creates a new mock content provider
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// Generate returns a canned report for the industry. The output follows the
// same <body>/<h2> structure the real provider asks the model for, so the
// section extractor exercises its marker path.
func (p *Provider) Generate(ctx context.Context, industry string, answers []string, toggles domain.SectionToggles) (string, error) {
	p.GenerateCalls++

	if p.GenerateError != nil {
		return "", p.GenerateError
	}
	if p.GenerateResponse != "" {
		return p.GenerateResponse, nil
	}

	var b strings.Builder
	b.WriteString("<body>\n")
	for _, s := range domain.SectionOrder {
		if !toggles.Enabled(s) {
			continue
		}
		fmt.Fprintf(&b, "<section>\n<h2>%s</h2>\n<p>%s</p>\n</section>\n", s.Title(), mockText(s, industry, answers))
	}
	b.WriteString("</body>\n")
	return b.String(), nil
}

func mockText(s domain.Section, industry string, answers []string) string {
	switch s {
	case domain.SectionIntroduction:
		return fmt.Sprintf("This is a mock introduction for the %s industry.", industry)
	case domain.SectionIndustryTrends:
		return fmt.Sprintf("Mock trends for the %s industry.", industry)
	case domain.SectionAISolutions:
		return fmt.Sprintf("Mock solutions based on %d provided answers.", len(answers))
	case domain.SectionAnalysis:
		return "Mock analysis and recommendations."
	case domain.SectionConclusion:
		return "Mock conclusion and next steps."
	default:
		return "Mock content."
	}
}

// Reset clears call counters and custom responses for testing
func (p *Provider) Reset() {
	p.GenerateCalls = 0
	p.GenerateResponse = ""
	p.GenerateError = nil
}
