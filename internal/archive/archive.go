// Package archive persists report records after a report has been assembled.
//
// Multiple archives can be configured at once; the pipeline fans out a save
// to every archive independently, so a failing backend never blocks the
// others. Lookups try each archive in order and return the first hit.
package archive

import (
	"context"
	"errors"

	"github.com/dmotts/insights/internal/domain"
)

// ErrNotFound is returned when no record exists for the requested report ID.
var ErrNotFound = errors.New("report record not found")

// Archive stores and retrieves report records.
type Archive interface {
	// Name identifies the backend in logs and metrics (e.g. "postgres").
	Name() string

	// Save persists the record. Saving the same report ID twice replaces
	// the existing record.
	Save(ctx context.Context, record *domain.ReportRecord) error

	// Get returns the record for the given report ID, or ErrNotFound.
	Get(ctx context.Context, reportID string) (*domain.ReportRecord, error)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
