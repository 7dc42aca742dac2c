package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(NotFound("archive.get", "report", "123")))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("raw error")))

	// Wrapped domain errors surface through the chain
	wrapped := Wrap(NotFound("archive.get", "report", "123"), EINTERNAL, "pipeline.get", "lookup failed")
	assert.Equal(t, EINTERNAL, ErrorCode(wrapped))
}

func TestErrorMessageMasksInternals(t *testing.T) {
	internal := Internal(errors.New("pq: connection refused"), "archive.save", "save failed")
	msg := ErrorMessage(internal)
	assert.NotContains(t, msg, "connection refused")
	assert.Equal(t, "An internal error occurred. Please try again later.", msg)

	// Non-domain errors are masked the same way
	assert.Equal(t, "An internal error occurred. Please try again later.", ErrorMessage(errors.New("boom")))

	// Client-facing codes keep their message
	assert.Equal(t, "report not found", ErrorMessage(NotFound("archive.get", "report", "123")))
}

func TestErrorUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := Wrap(sentinel, EUNAVAILABLE, "render", "renderer unavailable")
	assert.True(t, errors.Is(err, sentinel))
}
