package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmotts/insights/internal/domain"
)

// PostgresArchive stores report records in a Postgres reports table.
// The schema is managed by the embedded goose migrations.
type PostgresArchive struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresArchive creates a PostgresArchive on an open database handle.
func NewPostgresArchive(db *sql.DB, logger *slog.Logger) *PostgresArchive {
	return &PostgresArchive{db: db, logger: logger}
}

// Compile-time interface check.
var _ Archive = (*PostgresArchive)(nil)

// Name implements Archive.
func (a *PostgresArchive) Name() string { return "postgres" }

// Save upserts the record keyed by report ID.
func (a *PostgresArchive) Save(ctx context.Context, record *domain.ReportRecord) error {
	const query = `
		INSERT INTO reports (report_id, client_name, client_email, industry, pdf_url, doc_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (report_id) DO UPDATE SET
			client_name  = EXCLUDED.client_name,
			client_email = EXCLUDED.client_email,
			industry     = EXCLUDED.industry,
			pdf_url      = EXCLUDED.pdf_url,
			doc_url      = EXCLUDED.doc_url`

	_, err := a.db.ExecContext(ctx, query,
		record.ReportID,
		record.ClientName,
		record.ClientEmail,
		record.Industry,
		record.PDFURL,
		record.DocURL,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres archive: save report %s: %w", record.ReportID, err)
	}

	a.logger.Debug("saved report record", "archive", a.Name(), "report_id", record.ReportID)

	return nil
}

// Get returns the record for the given report ID.
func (a *PostgresArchive) Get(ctx context.Context, reportID string) (*domain.ReportRecord, error) {
	const query = `
		SELECT report_id, client_name, client_email, industry, pdf_url, doc_url, created_at
		FROM reports
		WHERE report_id = $1`

	var record domain.ReportRecord
	err := a.db.QueryRowContext(ctx, query, reportID).Scan(
		&record.ReportID,
		&record.ClientName,
		&record.ClientEmail,
		&record.Industry,
		&record.PDFURL,
		&record.DocURL,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres archive: get report %s: %w", reportID, err)
	}

	return &record, nil
}
