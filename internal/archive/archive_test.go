package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() *domain.ReportRecord {
	return &domain.ReportRecord{
		ReportID:    "1712320245",
		ClientName:  "Acme Corp",
		ClientEmail: "ops@acme.example",
		Industry:    "Logistics",
		PDFURL:      "https://pdf.example.com/r.pdf",
		DocURL:      "https://files.example.com/reports/1712320245/report.html",
		CreatedAt:   time.Date(2024, 4, 5, 12, 30, 45, 0, time.UTC),
	}
}

// =============================================================================
// MemoryArchive
// =============================================================================

func TestMemoryArchiveSaveGet(t *testing.T) {
	a := NewMemoryArchive()
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, testRecord()))

	got, err := a.Get(ctx, "1712320245")
	require.NoError(t, err)
	assert.Equal(t, testRecord(), got)
	assert.Equal(t, 1, a.SaveCalls)
	assert.Equal(t, 1, a.GetCalls)
}

func TestMemoryArchiveGetMissing(t *testing.T) {
	a := NewMemoryArchive()

	_, err := a.Get(context.Background(), "nope")
	assert.True(t, IsNotFound(err))
}

func TestMemoryArchiveSaveReplaces(t *testing.T) {
	a := NewMemoryArchive()
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, testRecord()))

	updated := testRecord()
	updated.PDFURL = "https://pdf.example.com/v2.pdf"
	require.NoError(t, a.Save(ctx, updated))

	got, err := a.Get(ctx, "1712320245")
	require.NoError(t, err)
	assert.Equal(t, "https://pdf.example.com/v2.pdf", got.PDFURL)
}

func TestMemoryArchiveForcedErrors(t *testing.T) {
	a := NewMemoryArchive()
	forced := errors.New("forced")
	a.SaveErr = forced

	err := a.Save(context.Background(), testRecord())
	assert.ErrorIs(t, err, forced)

	a.Reset()
	assert.NoError(t, a.Save(context.Background(), testRecord()))
}

func TestMemoryArchiveReturnsCopies(t *testing.T) {
	a := NewMemoryArchive()
	ctx := context.Background()
	require.NoError(t, a.Save(ctx, testRecord()))

	got, err := a.Get(ctx, "1712320245")
	require.NoError(t, err)
	got.ClientName = "mutated"

	again, err := a.Get(ctx, "1712320245")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", again.ClientName)
}

// =============================================================================
// ObjectArchive
// =============================================================================

func newTestObjectArchive(t *testing.T) *ObjectArchive {
	t.Helper()
	store, err := storage.NewLocalStorage(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:5000/files",
	}, testLogger())
	require.NoError(t, err)
	return NewObjectArchive(store, testLogger())
}

func TestObjectArchiveRoundTrip(t *testing.T) {
	a := newTestObjectArchive(t)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, testRecord()))

	got, err := a.Get(ctx, "1712320245")
	require.NoError(t, err)
	assert.Equal(t, testRecord(), got)
}

func TestObjectArchiveGetMissing(t *testing.T) {
	a := newTestObjectArchive(t)

	_, err := a.Get(context.Background(), "999")
	assert.True(t, IsNotFound(err))
}

func TestObjectArchiveSaveReplaces(t *testing.T) {
	a := newTestObjectArchive(t)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, testRecord()))

	updated := testRecord()
	updated.DocURL = ""
	require.NoError(t, a.Save(ctx, updated))

	got, err := a.Get(ctx, "1712320245")
	require.NoError(t, err)
	assert.Empty(t, got.DocURL)
}
