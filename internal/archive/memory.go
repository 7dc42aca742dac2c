package archive

import (
	"context"
	"sync"

	"github.com/dmotts/insights/internal/domain"
)

// MemoryArchive is an in-memory Archive for development and tests.
// Forced errors and call counters make it usable as a test double.
type MemoryArchive struct {
	mu      sync.Mutex
	records map[string]*domain.ReportRecord

	// SaveErr and GetErr, when set, are returned by the corresponding method.
	SaveErr error
	GetErr  error

	// Call counters for test assertions.
	SaveCalls int
	GetCalls  int
}

// NewMemoryArchive creates an empty MemoryArchive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{records: map[string]*domain.ReportRecord{}}
}

// Compile-time interface check.
var _ Archive = (*MemoryArchive)(nil)

// Name implements Archive.
func (a *MemoryArchive) Name() string { return "memory" }

// Save stores a copy of the record in memory.
func (a *MemoryArchive) Save(ctx context.Context, record *domain.ReportRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.SaveCalls++
	if a.SaveErr != nil {
		return a.SaveErr
	}

	clone := *record
	a.records[record.ReportID] = &clone
	return nil
}

// Get returns a copy of the stored record, or ErrNotFound.
func (a *MemoryArchive) Get(ctx context.Context, reportID string) (*domain.ReportRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.GetCalls++
	if a.GetErr != nil {
		return nil, a.GetErr
	}

	record, ok := a.records[reportID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *record
	return &clone, nil
}

// Reset clears stored records, forced errors, and call counters.
func (a *MemoryArchive) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records = map[string]*domain.ReportRecord{}
	a.SaveErr = nil
	a.GetErr = nil
	a.SaveCalls = 0
	a.GetCalls = 0
}
