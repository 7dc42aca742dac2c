package storage

import (
	"path/filepath"
	"strings"
)

// DetectContentType determines the MIME type of an object from its key.
// Falls back to application/octet-stream for unknown extensions.
func DetectContentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
