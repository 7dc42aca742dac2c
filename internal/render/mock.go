package render

import "context"

// Mock is a canned renderer for testing and development.
type Mock struct {
	// Configurable responses for testing
	RenderResponse string
	RenderError    error

	// Call tracking for testing
	RenderCalls int
	LastHTML    string
}

// NewMock creates a mock renderer that returns a fixed URL.
func NewMock() *Mock {
	return &Mock{
		RenderResponse: "https://pdf.example.com/report.pdf",
	}
}

// Render records the call and returns the configured URL or error.
func (m *Mock) Render(ctx context.Context, html string) (string, error) {
	m.RenderCalls++
	m.LastHTML = html
	if m.RenderError != nil {
		return "", m.RenderError
	}
	return m.RenderResponse, nil
}

// Reset clears call counters and custom responses for testing
func (m *Mock) Reset() {
	m.RenderCalls = 0
	m.LastHTML = ""
	m.RenderError = nil
	m.RenderResponse = "https://pdf.example.com/report.pdf"
}

var _ Renderer = (*Mock)(nil)
