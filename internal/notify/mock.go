package notify

import (
	"context"
	"sync"

	"github.com/dmotts/insights/internal/domain"
)

// Mock is a Notifier test double with forced errors and call counters.
type Mock struct {
	mu sync.Mutex

	// MockName is returned by Name. Defaults to "mock".
	MockName string

	// SendErr, when set, is returned by Send.
	SendErr error

	// SendCalls counts Send invocations; LastRecord holds the most recent
	// record passed to Send.
	SendCalls  int
	LastRecord *domain.ReportRecord
}

// NewMock creates a Mock notifier.
func NewMock() *Mock {
	return &Mock{MockName: "mock"}
}

// Compile-time interface check.
var _ Notifier = (*Mock)(nil)

// Name implements Notifier.
func (m *Mock) Name() string { return m.MockName }

// Send records the call and returns the configured error.
func (m *Mock) Send(ctx context.Context, record *domain.ReportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SendCalls++
	m.LastRecord = record
	return m.SendErr
}

// Reset clears forced errors and call counters.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SendErr = nil
	m.SendCalls = 0
	m.LastRecord = nil
}
