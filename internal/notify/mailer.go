// Package notify renders and delivers the admin notification emails.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Priyanshusingh0818/GORUS/config"
)

// ErrNotConfigured is returned by transports that cannot deliver mail.
var ErrNotConfigured = errors.New("mail transport not configured")

type Address struct {
	Email string
	Name  string
}

type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

type Message struct {
	From        Address
	To          []Address
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes a summary of each message to the log and reports
// ErrNotConfigured, so callers record the notification as skipped.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.Email)
	}
	m.log.Warn("No mail transport configured. Skipping email notification.",
		"subject", msg.Subject,
		"to", to,
		"attachments", len(msg.Attachments),
	)
	return ErrNotConfigured
}

// NewMailer picks the transport named by cfg.Provider.
func NewMailer(cfg config.MailConfig, log *slog.Logger) Mailer {
	switch cfg.Provider {
	case "brevo":
		if cfg.BrevoAPIKey != "" {
			return NewBrevoMailer(cfg.BrevoAPIKey)
		}
		log.Warn("MAIL_PROVIDER is brevo but BREVO_API_KEY is not set")
	case "smtp":
		if cfg.SMTPHost != "" {
			return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
		}
		log.Warn("MAIL_PROVIDER is smtp but SMTP_HOST is not set")
	}
	return NewLogMailer(log)
}
