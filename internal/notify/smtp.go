package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/dmotts/insights/internal/domain"
)

// =============================================================================
// SMTP Mailer
// =============================================================================

// SMTPMailer sends emails via SMTP.
//
// This implementation works with:
// - Mailhog (development): No authentication required
// - Any standard SMTP server with username/password authentication
//
// Email bodies are rendered from embedded html/template templates.
type SMTPMailer struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer creates an SMTP mailer with the given server configuration.
func NewSMTPMailer(config SMTPConfig, logger *slog.Logger) *SMTPMailer {
	if config.From == "" {
		config.From = DefaultFromEmail
	}
	if config.FromName == "" {
		config.FromName = DefaultFromName
	}

	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// Send sends an email via SMTP.
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	msg := m.buildMessage(email)
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	// Auth only when credentials are provided (not needed for Mailhog)
	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	err := smtp.SendMail(addr, auth, m.config.From, []string{email.To}, msg)
	if err != nil {
		m.logger.Error("failed to send email",
			"to", email.To,
			"subject", email.Subject,
			"error", err,
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent",
		"to", email.To,
		"subject", email.Subject,
	)

	return nil
}

// buildMessage constructs the raw email message with headers.
func (m *SMTPMailer) buildMessage(email Email) []byte {
	var buf bytes.Buffer

	fromHeader := fmt.Sprintf("%s <%s>", m.config.FromName, m.config.From)

	buf.WriteString(fmt.Sprintf("From: %s\r\n", fromHeader))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	// Multipart message for HTML + text
	boundary := "===============INSIGHTS_BOUNDARY==============="
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	buf.WriteString("\r\n")

	// Plain text part
	buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.TextBody)
	buf.WriteString("\r\n")

	// HTML part
	buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(email.HTMLBody)
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return buf.Bytes()
}

// =============================================================================
// Email Templates
// =============================================================================

var reportReadyTemplate = template.Must(template.New("report_ready").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Your AI Insights Report is ready</h2>
  <p>Hi {{.Name}},</p>
  <p>Thank you for completing the questionnaire. Your personalized AI insights
  report for the {{.Industry}} industry has been generated.</p>
  {{if .PDFURL}}<p><a href="{{.PDFURL}}">Download the PDF report</a></p>{{end}}
  {{if .DocURL}}<p><a href="{{.DocURL}}">View the report online</a></p>{{end}}
  <p>Best regards,<br>The AI Insights Team</p>
  <p style="color: #999; font-size: 12px;">&copy; {{.Year}} AI Insights</p>
</body>
</html>`))

var adminReportTemplate = template.Must(template.New("admin_report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New report generated</h2>
  <ul>
    <li>Report ID: {{.ReportID}}</li>
    <li>Client: {{.ClientName}} ({{.ClientEmail}})</li>
    <li>Industry: {{.Industry}}</li>
    {{if .PDFURL}}<li>PDF: <a href="{{.PDFURL}}">{{.PDFURL}}</a></li>{{end}}
    {{if .DocURL}}<li>Document: <a href="{{.DocURL}}">{{.DocURL}}</a></li>{{end}}
  </ul>
</body>
</html>`))

// renderTemplate renders an email template with the given data.
func renderTemplate(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// =============================================================================
// Client Notifier
// =============================================================================

// ClientNotifier emails the report recipient when their report is ready.
type ClientNotifier struct {
	mailer *SMTPMailer
}

// NewClientNotifier creates a notifier that mails the record's client email.
func NewClientNotifier(mailer *SMTPMailer) *ClientNotifier {
	return &ClientNotifier{mailer: mailer}
}

// Compile-time interface check.
var _ Notifier = (*ClientNotifier)(nil)

// Name implements Notifier.
func (n *ClientNotifier) Name() string { return "client_email" }

// Send emails the client their report links.
func (n *ClientNotifier) Send(ctx context.Context, record *domain.ReportRecord) error {
	data := map[string]interface{}{
		"Name":     record.ClientName,
		"Industry": record.Industry,
		"PDFURL":   record.PDFURL,
		"DocURL":   record.DocURL,
		"Year":     time.Now().Year(),
	}

	htmlBody, err := renderTemplate(reportReadyTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render report ready email template: %w", err)
	}

	var links []string
	if record.PDFURL != "" {
		links = append(links, "Download the PDF report: "+record.PDFURL)
	}
	if record.DocURL != "" {
		links = append(links, "View the report online: "+record.DocURL)
	}

	textBody := fmt.Sprintf(`Hi %s,

Thank you for completing the questionnaire. Your personalized AI insights report for the %s industry has been generated.

%s

Best regards,
The AI Insights Team
`, record.ClientName, record.Industry, strings.Join(links, "\n"))

	return n.mailer.Send(ctx, Email{
		To:       record.ClientEmail,
		Subject:  "Your AI Insights Report is ready",
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
}

// =============================================================================
// Admin Notifier
// =============================================================================

// AdminNotifier emails a fixed admin address a summary of every generated
// report.
type AdminNotifier struct {
	mailer     *SMTPMailer
	adminEmail string
}

// NewAdminNotifier creates a notifier that mails the given admin address.
func NewAdminNotifier(mailer *SMTPMailer, adminEmail string) *AdminNotifier {
	return &AdminNotifier{mailer: mailer, adminEmail: adminEmail}
}

// Compile-time interface check.
var _ Notifier = (*AdminNotifier)(nil)

// Name implements Notifier.
func (n *AdminNotifier) Name() string { return "admin_email" }

// Send emails the admin a summary of the generated report.
func (n *AdminNotifier) Send(ctx context.Context, record *domain.ReportRecord) error {
	htmlBody, err := renderTemplate(adminReportTemplate, record)
	if err != nil {
		return fmt.Errorf("failed to render admin report email template: %w", err)
	}

	textBody := fmt.Sprintf(`New report generated.

Report ID: %s
Client: %s (%s)
Industry: %s
PDF: %s
Document: %s
`, record.ReportID, record.ClientName, record.ClientEmail, record.Industry, record.PDFURL, record.DocURL)

	return n.mailer.Send(ctx, Email{
		To:       n.adminEmail,
		Subject:  fmt.Sprintf("New report generated: %s", record.ReportID),
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
}
