// Package storage provides object storage for generated report artifacts.
//
// This package defines a Storage interface with implementations for:
// - LocalStorage: File system storage for development
// - S3Storage: S3-compatible object storage (AWS S3, Cloudflare R2, MinIO)
//
// The storage service holds the rendered HTML document for each report and
// the JSON record written by the object archive, with automatic content type
// detection.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for object storage operations.
//
// Implementations:
// - LocalStorage: Stores objects on the local filesystem
// - S3Storage: Stores objects in an S3-compatible bucket
//
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Put stores data at the specified key with the given options.
	// Returns an error if the operation fails or if the key already exists
	// (unless overwrite is enabled in opts).
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get retrieves the data at the specified key.
	// Returns the data as an io.ReadCloser (caller must close), object metadata,
	// and an error. Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at the specified key.
	// This operation is idempotent - no error is returned if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for accessing the object at the specified key.
	// For public objects, this is a permanent URL.
	// For private objects, this is a presigned URL valid for the specified duration.
	// Returns an error if the key doesn't exist or URL generation fails.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	// Exists checks if an object exists at the specified key.
	// Returns true if the object exists, false otherwise.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type of the object.
	// If empty, it will be auto-detected from the key's extension.
	ContentType string

	// Overwrite allows replacing an existing object at the same key.
	// If false and the key exists, ErrKeyExists is returned.
	Overwrite bool

	// Public determines if the object should be publicly accessible.
	// For S3, this sets the ACL to public-read.
	// For local storage, this is informational only.
	Public bool
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string    // Object key/path
	Size         int64     // Size in bytes
	ContentType  string    // MIME type
	LastModified time.Time // Last modification time
	ETag         string    // Entity tag (if available)
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory where objects are stored.
	// Example: "./storage" or "/var/lib/insights/files"
	BasePath string

	// BaseURL is the public URL prefix for accessing objects.
	// Example: "http://localhost:5000/files"
	BaseURL string
}

// S3Config holds configuration for S3-compatible object storage.
type S3Config struct {
	// Endpoint is a custom endpoint URL for S3-compatible providers.
	// Example: "https://<account>.r2.cloudflarestorage.com" for Cloudflare R2,
	// or "http://localhost:9000" for MinIO.
	// If empty, the default AWS S3 endpoint for the region is used.
	Endpoint string

	// Region is the bucket region. S3-compatible providers that ignore
	// regions accept any value; "auto" is a common choice for R2.
	Region string

	// AccessKeyID is the API access key ID.
	AccessKeyID string

	// SecretAccessKey is the API secret key.
	SecretAccessKey string

	// Bucket is the name of the bucket to use.
	Bucket string

	// PublicURL is the public URL for the bucket (if using a custom domain).
	// Example: "https://files.example.com"
	// If empty, presigned URLs will be used for all access. Report document
	// URLs are archived and mailed, so deployments serving documents from S3
	// must set this; presigned URLs expire.
	PublicURL string
}

// =============================================================================
// Provider Constants
// =============================================================================

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderS3 identifies the S3-compatible storage provider.
	ProviderS3 = "s3"
)

// =============================================================================
// Key Generation Helpers
// =============================================================================

// DocumentKey generates a storage key for a report's rendered HTML document.
// Format: reports/{reportID}/report.html
func DocumentKey(reportID string) string {
	return fmt.Sprintf("reports/%s/report.html", reportID)
}

// RecordKey generates a storage key for a report's archived JSON record.
// Format: reports/{reportID}/record.json
func RecordKey(reportID string) string {
	return fmt.Sprintf("reports/%s/record.json", reportID)
}
