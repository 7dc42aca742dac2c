// Package domain holds the core types of the report pipeline: the validated
// questionnaire, the generated report content, and the durable report record.
package domain

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// Section identifies one named part of a generated report.
type Section string

const (
	SectionIntroduction   Section = "introduction"
	SectionIndustryTrends Section = "industry_trends"
	SectionAISolutions    Section = "ai_solutions"
	SectionAnalysis       Section = "analysis"
	SectionConclusion     Section = "conclusion"
)

// SectionOrder is the fixed presentation order of report sections. Rendering
// walks this slice so offsets stay stable even when a section is unavailable.
var SectionOrder = []Section{
	SectionIntroduction,
	SectionIndustryTrends,
	SectionAISolutions,
	SectionAnalysis,
	SectionConclusion,
}

// Title returns the display heading for a section.
func (s Section) Title() string {
	switch s {
	case SectionIntroduction:
		return "Introduction"
	case SectionIndustryTrends:
		return "Industry Trends"
	case SectionAISolutions:
		return "AI Solutions"
	case SectionAnalysis:
		return "Analysis"
	case SectionConclusion:
		return "Conclusion"
	default:
		return string(s)
	}
}

// Placeholder returns the text substituted when a section is disabled or
// could not be extracted from the generated content.
func (s Section) Placeholder() string {
	return s.Title() + " section is unavailable."
}

// SectionToggles maps each section to whether it is requested for a run.
// A section absent from the map is treated as enabled.
type SectionToggles map[Section]bool

// Enabled reports whether a section is active under these toggles.
func (t SectionToggles) Enabled(s Section) bool {
	if t == nil {
		return true
	}
	v, ok := t[s]
	if !ok {
		return true
	}
	return v
}

// ReportContent is the output of content generation: every section in
// SectionOrder is present in the map, bound to either generated text or the
// section's placeholder. Downstream rendering never sees a missing key.
type ReportContent struct {
	Sections map[Section]string
}

// ReportRequest is the validated questionnaire that drives one pipeline run.
type ReportRequest struct {
	ClientName  string
	ClientEmail string
	Industry    string
	Answers     []string
	Include     SectionToggles
}

// MinQuestions and MaxQuestions bound the configurable questionnaire length.
const (
	MinQuestions = 3
	MaxQuestions = 6
)

// Validate checks every field of the request. It returns a ValidationError
// keyed by the JSON field names, or nil when the request is well formed.
// questionCount is the number of answers the deployment expects.
func (r *ReportRequest) Validate(questionCount int) *ValidationError {
	ve := &ValidationError{Op: "report.validate", Fields: map[string][]string{}}

	if strings.TrimSpace(r.ClientName) == "" {
		ve.Add("client_name", "Missing data for required field.")
	}
	if strings.TrimSpace(r.ClientEmail) == "" {
		ve.Add("client_email", "Missing data for required field.")
	} else if !validEmail(r.ClientEmail) {
		ve.Add("client_email", "Not a valid email address.")
	}
	if strings.TrimSpace(r.Industry) == "" {
		ve.Add("industry", "Missing data for required field.")
	}

	for i := 0; i < questionCount; i++ {
		field := "question" + strconv.Itoa(i+1)
		if i >= len(r.Answers) || strings.TrimSpace(r.Answers[i]) == "" {
			ve.Add(field, "Missing data for required field.")
		}
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

// validEmail checks the address against RFC 5322 grammar and rejects
// display-name forms ("Name <a@b>").
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// ReportRecord is the durable artifact of one pipeline run. It is constructed
// once after document rendering completes and never mutated afterwards;
// archives and notifiers read it, they do not write back.
type ReportRecord struct {
	ReportID    string    `json:"report_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Industry    string    `json:"industry"`
	PDFURL      string    `json:"pdf_url"`
	DocURL      string    `json:"doc_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewReportID derives a report ID from the given time: the integer Unix
// timestamp formatted as a decimal string. Two runs completing within the
// same second collide; archives resolve this last-writer-wins.
func NewReportID(t time.Time) string {
	return fmt.Sprintf("%d", t.Unix())
}

// Pipeline result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// PipelineResult is the HTTP-facing outcome of a successful pipeline run.
// PDFURL and DocURL are nil when the corresponding collaborator was disabled
// or failed; the run itself still succeeds. Validation failures are reported
// separately as a ValidationError, never as a PipelineResult.
type PipelineResult struct {
	Status   string  `json:"status"`
	ReportID string  `json:"report_id"`
	PDFURL   *string `json:"pdf_url"`
	DocURL   *string `json:"doc_url"`
}

// OptionalURL converts an empty URL to nil for the response contract.
func OptionalURL(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
