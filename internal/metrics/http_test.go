package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"report lookup", "/get_report/1712320245", "/get_report/{id}"},
		{"report download", "/download_report/1712320245", "/download_report/{id}"},
		{"id mid path", "/reports/1712320245/document", "/reports/{id}/document"},
		{"no id", "/generate_report", "/generate_report"},
		{"root", "/", "/"},
		{"non numeric segment", "/get_report/abc", "/get_report/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK) // second call must not overwrite

	assert.Equal(t, http.StatusNotFound, rw.statusCode)
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	n, err := rw.Write([]byte("body"))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.Equal(t, 4, rw.bytesWritten)
}

func TestMiddlewareSkipsMetricsEndpoint(t *testing.T) {
	called := false
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.True(t, called)
}
