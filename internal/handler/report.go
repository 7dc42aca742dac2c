// Package handler contains the HTTP handlers of the report service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmotts/insights/internal/archive"
	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/pipeline"
)

// ReportHandler handles report generation and retrieval requests.
type ReportHandler struct {
	pipeline      *pipeline.Pipeline
	questionCount int
	logger        *slog.Logger
}

// NewReportHandler creates a new ReportHandler. questionCount is the number
// of questionnaire answers the deployment expects.
func NewReportHandler(p *pipeline.Pipeline, questionCount int, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		pipeline:      p,
		questionCount: questionCount,
		logger:        logger,
	}
}

// RegisterRoutes registers the report endpoints on the given mux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /generate_report", h.Generate)
	mux.HandleFunc("GET /get_report/{report_id}", h.Get)
	mux.HandleFunc("GET /download_report/{report_id}", h.Download)
}

// generateReportRequest is the wire shape of the questionnaire submission.
// Section toggles default to enabled when absent.
type generateReportRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	Industry    string `json:"industry"`

	Question1 string `json:"question1"`
	Question2 string `json:"question2"`
	Question3 string `json:"question3"`
	Question4 string `json:"question4"`
	Question5 string `json:"question5"`
	Question6 string `json:"question6"`

	IncludeIntroduction   *bool `json:"includeIntroduction"`
	IncludeIndustryTrends *bool `json:"includeIndustryTrends"`
	IncludeAISolutions    *bool `json:"includeAISolutions"`
	IncludeAnalysis       *bool `json:"includeAnalysis"`
	IncludeConclusion     *bool `json:"includeConclusion"`
}

// toDomain converts the wire request into a domain request with the first
// questionCount answers. Extra question fields beyond the configured count
// are ignored.
func (req *generateReportRequest) toDomain(questionCount int) *domain.ReportRequest {
	all := []string{
		req.Question1, req.Question2, req.Question3,
		req.Question4, req.Question5, req.Question6,
	}
	if questionCount > len(all) {
		questionCount = len(all)
	}

	toggles := domain.SectionToggles{}
	setToggle := func(s domain.Section, v *bool) {
		if v != nil {
			toggles[s] = *v
		}
	}
	setToggle(domain.SectionIntroduction, req.IncludeIntroduction)
	setToggle(domain.SectionIndustryTrends, req.IncludeIndustryTrends)
	setToggle(domain.SectionAISolutions, req.IncludeAISolutions)
	setToggle(domain.SectionAnalysis, req.IncludeAnalysis)
	setToggle(domain.SectionConclusion, req.IncludeConclusion)

	return &domain.ReportRequest{
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientEmail: strings.TrimSpace(req.ClientEmail),
		Industry:    strings.TrimSpace(req.Industry),
		Answers:     all[:questionCount],
		Include:     toggles,
	}
}

// Generate runs the report pipeline for a submitted questionnaire.
// POST /generate_report
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Errorf(domain.EINVALID, "handler.generate", "Invalid JSON body"))
		return
	}

	result, err := h.pipeline.Assemble(r.Context(), req.toDomain(h.questionCount))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get returns the archived record for a report.
// GET /get_report/{report_id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("report_id")

	record, err := h.pipeline.Get(r.Context(), reportID)
	if err != nil {
		if archive.IsNotFound(err) {
			NotFoundResponse(w, r, h.logger)
			return
		}
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Download redirects to the report's PDF, falling back to the document URL.
// GET /download_report/{report_id}
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("report_id")

	record, err := h.pipeline.Get(r.Context(), reportID)
	if err != nil {
		if archive.IsNotFound(err) {
			NotFoundResponse(w, r, h.logger)
			return
		}
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	switch {
	case record.PDFURL != "":
		http.Redirect(w, r, record.PDFURL, http.StatusFound)
	case record.DocURL != "":
		http.Redirect(w, r, record.DocURL, http.StatusFound)
	default:
		NotFoundResponse(w, r, h.logger)
	}
}
