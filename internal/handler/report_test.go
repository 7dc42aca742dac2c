package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmotts/insights/internal/archive"
	contentmock "github.com/dmotts/insights/internal/content/mock"
	"github.com/dmotts/insights/internal/domain"
	"github.com/dmotts/insights/internal/notify"
	"github.com/dmotts/insights/internal/pipeline"
	"github.com/dmotts/insights/internal/render"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer builds a server around an in-memory pipeline and returns the
// mux plus the archive backing it, for seeding and inspecting records.
func newTestServer(t *testing.T) (*http.ServeMux, *archive.MemoryArchive) {
	t.Helper()

	mem := archive.NewMemoryArchive()
	p := pipeline.New(pipeline.Config{
		Generator:     contentmock.New(testLogger()),
		Renderer:      render.NewMock(),
		Archives:      []archive.Archive{mem},
		Notifiers:     []notify.Notifier{notify.NewMock()},
		QuestionCount: 3,
		Logger:        testLogger(),
		Now:           func() time.Time { return time.Date(2024, 4, 5, 12, 30, 45, 0, time.UTC) },
	})

	mux := http.NewServeMux()
	NewReportHandler(p, 3, testLogger()).RegisterRoutes(mux)
	return mux, mem
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func validPayload() map[string]any {
	return map[string]any{
		"client_name":  "Acme Corp",
		"client_email": "ops@acme.example",
		"industry":     "Logistics",
		"question1":    "We run a fleet of 200 trucks.",
		"question2":    "Routing is planned by hand.",
		"question3":    "We want to cut fuel costs.",
	}
}

func TestGenerateReport(t *testing.T) {
	mux, mem := newTestServer(t)

	rec := postJSON(t, mux, "/generate_report", validPayload())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Status   string  `json:"status"`
		ReportID string  `json:"report_id"`
		PDFURL   *string `json:"pdf_url"`
		DocURL   *string `json:"doc_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "1712320245", resp.ReportID)
	require.NotNil(t, resp.PDFURL)
	assert.Equal(t, "https://pdf.example.com/report.pdf", *resp.PDFURL)
	// No document store is configured, so doc_url is an explicit null
	assert.Nil(t, resp.DocURL)

	// The record landed in the archive
	record, err := mem.Get(context.Background(), resp.ReportID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", record.ClientName)
}

func TestGenerateReportValidation(t *testing.T) {
	mux, _ := newTestServer(t)

	payload := validPayload()
	payload["client_email"] = "not-an-email"
	delete(payload, "client_name")

	rec := postJSON(t, mux, "/generate_report", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Status  string              `json:"status"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Validation error", resp.Message)
	assert.Equal(t, []string{"Missing data for required field."}, resp.Details["client_name"])
	assert.Equal(t, []string{"Not a valid email address."}, resp.Details["client_email"])
}

func TestGenerateReportMissingAnswers(t *testing.T) {
	mux, _ := newTestServer(t)

	payload := validPayload()
	delete(payload, "question2")

	rec := postJSON(t, mux, "/generate_report", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Details map[string][]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "question2")
}

func TestGenerateReportBadJSON(t *testing.T) {
	mux, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/generate_report", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Invalid JSON body"}`, rec.Body.String())
}

func TestGenerateReportSectionToggles(t *testing.T) {
	mux, _ := newTestServer(t)

	payload := validPayload()
	payload["includeConclusion"] = false

	rec := postJSON(t, mux, "/generate_report", payload)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetReport(t *testing.T) {
	mux, mem := newTestServer(t)

	record := &domain.ReportRecord{
		ReportID:    "1712320245",
		ClientName:  "Acme Corp",
		ClientEmail: "ops@acme.example",
		Industry:    "Logistics",
		PDFURL:      "https://pdf.example.com/report.pdf",
		CreatedAt:   time.Date(2024, 4, 5, 12, 30, 45, 0, time.UTC),
	}
	require.NoError(t, mem.Save(context.Background(), record))

	req := httptest.NewRequest(http.MethodGet, "/get_report/1712320245", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.ReportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Acme Corp", got.ClientName)
	assert.Equal(t, "https://pdf.example.com/report.pdf", got.PDFURL)
}

func TestGetReportNotFound(t *testing.T) {
	mux, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/get_report/999", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Report not found"}`, rec.Body.String())
}

func TestDownloadReport(t *testing.T) {
	mux, mem := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		record       *domain.ReportRecord
		wantCode     int
		wantLocation string
	}{
		{
			name: "redirects to pdf",
			record: &domain.ReportRecord{
				ReportID: "1",
				PDFURL:   "https://pdf.example.com/report.pdf",
				DocURL:   "http://localhost:5000/files/reports/1/report.html",
			},
			wantCode:     http.StatusFound,
			wantLocation: "https://pdf.example.com/report.pdf",
		},
		{
			name: "falls back to document",
			record: &domain.ReportRecord{
				ReportID: "2",
				DocURL:   "http://localhost:5000/files/reports/2/report.html",
			},
			wantCode:     http.StatusFound,
			wantLocation: "http://localhost:5000/files/reports/2/report.html",
		},
		{
			name:     "no artifacts",
			record:   &domain.ReportRecord{ReportID: "3"},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, mem.Save(ctx, tt.record))

			req := httptest.NewRequest(http.MethodGet, "/download_report/"+tt.record.ReportID, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}

func TestDownloadReportMissing(t *testing.T) {
	mux, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/download_report/999", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
