// Package pipeline assembles reports: it owns the stage ordering and the
// partial-failure policy for one report generation run.
//
// Only request validation aborts a run. A failed or disabled content
// generator degrades the run to placeholder sections; a failed renderer
// degrades it to a report without a PDF. Archive and notification failures
// are isolated per backend and never affect the response. The report ID is
// minted after rendering, so a request rejected earlier never consumes an ID.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dmotts/insights/internal/archive"
	"github.com/dmotts/insights/internal/content"
	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/metrics"
	"github.com/dmotts/insights/internal/notify"
	"github.com/dmotts/insights/internal/render"
	"github.com/dmotts/insights/internal/storage"
)

// Config wires the pipeline's collaborators. Generator, Renderer, and
// Documents may be nil when the corresponding feature is disabled; Archives
// and Notifiers may be empty.
type Config struct {
	// Generator produces the report content. Nil disables generation and
	// every section falls back to its placeholder.
	Generator content.Generator

	// Renderer converts the assembled HTML document to a PDF URL. Nil
	// disables rendering and the result carries no PDF URL.
	Renderer render.Renderer

	// Documents stores the assembled HTML document and yields the durable
	// document URL. Nil disables document publishing.
	Documents storage.Storage

	// Archives receive the report record after assembly, each independently.
	Archives []archive.Archive

	// Notifiers are invoked after archiving, each independently.
	Notifiers []notify.Notifier

	// QuestionCount is the number of questionnaire answers required by
	// validation.
	QuestionCount int

	// Timeout bounds one assembly run across all stages. Zero means no
	// bound beyond the request context.
	Timeout time.Duration

	Logger *slog.Logger

	// Now supplies the clock for report IDs and record timestamps.
	// Defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs report assembly. Safe for concurrent use.
type Pipeline struct {
	generator     content.Generator
	renderer      render.Renderer
	documents     storage.Storage
	archives      []archive.Archive
	notifiers     []notify.Notifier
	questionCount int
	timeout       time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// New creates a Pipeline from the given configuration.
func New(cfg Config) *Pipeline {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		generator:     cfg.Generator,
		renderer:      cfg.Renderer,
		documents:     cfg.Documents,
		archives:      cfg.Archives,
		notifiers:     cfg.Notifiers,
		questionCount: cfg.QuestionCount,
		timeout:       cfg.Timeout,
		logger:        logger,
		now:           now,
	}
}

// Assemble runs the full pipeline for one validated questionnaire.
//
// A *domain.ValidationError is the only error return; it is produced before
// any collaborator is invoked. Every other failure mode degrades the result
// instead of failing the run.
func (p *Pipeline) Assemble(ctx context.Context, req *domain.ReportRequest) (*domain.PipelineResult, error) {
	if ve := req.Validate(p.questionCount); ve != nil {
		return nil, ve
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := p.now()

	// Stage 1: content generation. Failures degrade to placeholders.
	raw := p.generateContent(ctx, req)

	// Stage 2: section extraction and document assembly. Extraction is
	// total; every section resolves to text or its placeholder.
	reportContent := content.ExtractSections(raw, req.Include)

	doc, err := render.BuildDocument(reportContent)
	if err != nil {
		p.logger.Error("document assembly failed", "error", err)
		metrics.StageFailures.WithLabelValues("document").Inc()
		doc = ""
	}

	// Stage 3: PDF rendering. Failures degrade to a report without a PDF.
	pdfURL := p.renderPDF(ctx, doc)

	// The ID is minted only once rendering is behind us.
	created := p.now()
	reportID := domain.NewReportID(created)

	// Stage 4: publish the HTML document for the durable document URL.
	docURL := p.publishDocument(ctx, reportID, doc)

	record := &domain.ReportRecord{
		ReportID:    reportID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Industry:    req.Industry,
		PDFURL:      pdfURL,
		DocURL:      docURL,
		CreatedAt:   created.UTC(),
	}

	// Stages 5 and 6: archive and notification fan-out, each call isolated.
	p.archiveRecord(ctx, record)
	p.notifyRecord(ctx, record)

	metrics.ReportsGenerated.Inc()
	metrics.PipelineDuration.Observe(p.now().Sub(start).Seconds())

	p.logger.Info("report assembled",
		"report_id", reportID,
		"industry", req.Industry,
		"has_pdf", pdfURL != "",
		"has_doc", docURL != "",
	)

	return &domain.PipelineResult{
		Status:   domain.StatusSuccess,
		ReportID: reportID,
		PDFURL:   domain.OptionalURL(pdfURL),
		DocURL:   domain.OptionalURL(docURL),
	}, nil
}

// Get looks up a report record across the configured archives in order and
// returns the first hit. Returns archive.ErrNotFound when no archive holds
// the record.
func (p *Pipeline) Get(ctx context.Context, reportID string) (*domain.ReportRecord, error) {
	for _, a := range p.archives {
		record, err := a.Get(ctx, reportID)
		if err == nil {
			return record, nil
		}
		if !archive.IsNotFound(err) {
			p.logger.Error("archive lookup failed",
				"archive", a.Name(),
				"report_id", reportID,
				"error", err,
			)
		}
	}
	return nil, archive.ErrNotFound
}

// =============================================================================
// Stages
// =============================================================================

// generateContent runs the content generator and returns its raw output, or
// an empty string when generation is disabled or fails.
func (p *Pipeline) generateContent(ctx context.Context, req *domain.ReportRequest) string {
	if p.generator == nil {
		p.logger.Debug("content generation disabled, using placeholders")
		return ""
	}

	raw, err := p.generator.Generate(ctx, req.Industry, req.Answers, req.Include)
	if err != nil {
		p.logger.Error("content generation failed", "industry", req.Industry, "error", err)
		metrics.StageFailures.WithLabelValues("content").Inc()
		return ""
	}
	return raw
}

// renderPDF converts the document to a PDF and returns its URL, or an empty
// string when rendering is disabled, fails, or there is no document.
func (p *Pipeline) renderPDF(ctx context.Context, doc string) string {
	if p.renderer == nil || doc == "" {
		return ""
	}

	pdfURL, err := p.renderer.Render(ctx, doc)
	if err != nil {
		p.logger.Error("pdf rendering failed", "error", err)
		metrics.StageFailures.WithLabelValues("render").Inc()
		return ""
	}
	return pdfURL
}

// publishDocument stores the HTML document and returns its durable URL, or
// an empty string when publishing is disabled, fails, or there is no
// document.
func (p *Pipeline) publishDocument(ctx context.Context, reportID, doc string) string {
	if p.documents == nil || doc == "" {
		return ""
	}

	key := storage.DocumentKey(reportID)
	err := p.documents.Put(ctx, key, strings.NewReader(doc), storage.PutOptions{
		ContentType: "text/html; charset=utf-8",
		Overwrite:   true,
		Public:      true,
	})
	if err != nil {
		p.logger.Error("document publish failed", "report_id", reportID, "error", err)
		metrics.StageFailures.WithLabelValues("document").Inc()
		return ""
	}

	docURL, err := p.documents.URL(ctx, key, 0)
	if err != nil {
		p.logger.Error("document URL generation failed", "report_id", reportID, "error", err)
		metrics.StageFailures.WithLabelValues("document").Inc()
		return ""
	}
	return docURL
}

// archiveRecord saves the record to every archive concurrently. Each save is
// isolated: a failure is logged and counted, never propagated.
func (p *Pipeline) archiveRecord(ctx context.Context, record *domain.ReportRecord) {
	var wg sync.WaitGroup
	for _, a := range p.archives {
		wg.Add(1)
		go func(a archive.Archive) {
			defer wg.Done()
			if err := a.Save(ctx, record); err != nil {
				p.logger.Error("archive save failed",
					"archive", a.Name(),
					"report_id", record.ReportID,
					"error", err,
				)
				metrics.StageFailures.WithLabelValues("archive_" + a.Name()).Inc()
			}
		}(a)
	}
	wg.Wait()
}

// notifyRecord invokes every notifier concurrently with the same isolation
// as archiveRecord.
func (p *Pipeline) notifyRecord(ctx context.Context, record *domain.ReportRecord) {
	var wg sync.WaitGroup
	for _, n := range p.notifiers {
		wg.Add(1)
		go func(n notify.Notifier) {
			defer wg.Done()
			if err := n.Send(ctx, record); err != nil {
				p.logger.Error("notification failed",
					"notifier", n.Name(),
					"report_id", record.ReportID,
					"error", err,
				)
				metrics.StageFailures.WithLabelValues("notify_" + n.Name()).Inc()
			}
		}(n)
	}
	wg.Wait()
}
