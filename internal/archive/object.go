package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/storage"
)

// ObjectArchive stores report records as JSON objects in object storage,
// one object per report at storage.RecordKey(reportID). It gives deployments
// without a database a durable record of every generated report.
type ObjectArchive struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewObjectArchive creates an ObjectArchive on the given storage backend.
func NewObjectArchive(store storage.Storage, logger *slog.Logger) *ObjectArchive {
	return &ObjectArchive{store: store, logger: logger}
}

// Compile-time interface check.
var _ Archive = (*ObjectArchive)(nil)

// Name implements Archive.
func (a *ObjectArchive) Name() string { return "object" }

// Save writes the record as a JSON object, replacing any previous version.
func (a *ObjectArchive) Save(ctx context.Context, record *domain.ReportRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("object archive: encode report %s: %w", record.ReportID, err)
	}

	key := storage.RecordKey(record.ReportID)
	err = a.store.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
		ContentType: "application/json",
		Overwrite:   true,
	})
	if err != nil {
		return fmt.Errorf("object archive: save report %s: %w", record.ReportID, err)
	}

	a.logger.Debug("saved report record", "archive", a.Name(), "key", key)

	return nil
}

// Get reads the record back from its JSON object.
func (a *ObjectArchive) Get(ctx context.Context, reportID string) (*domain.ReportRecord, error) {
	key := storage.RecordKey(reportID)

	body, _, err := a.store.Get(ctx, key)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("object archive: get report %s: %w", reportID, err)
	}
	defer body.Close()

	var record domain.ReportRecord
	if err := json.NewDecoder(body).Decode(&record); err != nil {
		return nil, fmt.Errorf("object archive: decode report %s: %w", reportID, err)
	}

	return &record, nil
}
