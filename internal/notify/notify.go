// Package notify sends email notifications after a report has been assembled.
//
// Like the archive fan-out, every configured notifier is invoked
// independently; a bounced client email never suppresses the admin copy.
package notify

import (
	"context"

	"github.com/dmotts/insights/internal/domain"
)

// Notifier delivers a notification about a completed report.
type Notifier interface {
	// Name identifies the notifier in logs and metrics (e.g. "client_email").
	Name() string

	// Send delivers the notification for the given record.
	Send(ctx context.Context, record *domain.ReportRecord) error
}

// =============================================================================
// Email Data Types
// =============================================================================

// Email represents a single email message.
type Email struct {
	To       string // Recipient email address
	Subject  string // Email subject line
	HTMLBody string // HTML content of the email
	TextBody string // Plain text fallback content
}

// =============================================================================
// Configuration Types
// =============================================================================

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string // SMTP server hostname (e.g., "localhost" for Mailhog)
	Port     int    // SMTP server port (e.g., 1025 for Mailhog)
	Username string // SMTP authentication username (empty for Mailhog)
	Password string // SMTP authentication password (empty for Mailhog)
	From     string // Default sender email address
	FromName string // Default sender display name
}

// =============================================================================
// Common Constants
// =============================================================================

const (
	// DefaultFromEmail is the default sender email for report notifications.
	DefaultFromEmail = "noreply@dmotts.dev"

	// DefaultFromName is the default sender display name.
	DefaultFromName = "AI Insights"
)
