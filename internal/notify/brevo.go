package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// BrevoMailer sends through Brevo's transactional email API.
type BrevoMailer struct {
	client *brevo.APIClient
}

func NewBrevoMailer(apiKey string) *BrevoMailer {
	return newBrevoMailer(apiKey, "")
}

// newBrevoMailer points the client at basePath when it is set.
func newBrevoMailer(apiKey, basePath string) *BrevoMailer {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	if basePath != "" {
		cfg.BasePath = basePath
	}
	return &BrevoMailer{client: brevo.NewAPIClient(cfg)}
}

func (m *BrevoMailer) Send(ctx context.Context, msg Message) error {
	email := brevo.SendSmtpEmail{
		Sender:      &brevo.SendSmtpEmailSender{Email: msg.From.Email, Name: msg.From.Name},
		Subject:     msg.Subject,
		HtmlContent: msg.HTML,
		TextContent: msg.Text,
	}
	for _, to := range msg.To {
		email.To = append(email.To, brevo.SendSmtpEmailTo{Email: to.Email, Name: to.Name})
	}
	for _, a := range msg.Attachments {
		email.Attachment = append(email.Attachment, brevo.SendSmtpEmailAttachment{
			Content: base64.StdEncoding.EncodeToString(a.Content),
			Name:    a.Name,
		})
	}

	_, resp, err := m.client.TransactionalEmailsApi.SendTransacEmail(ctx, email)
	if err != nil {
		var apiErr brevo.GenericSwaggerError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("brevo returned %s: %s", apiErr.Error(), apiErr.Body())
		}
		return fmt.Errorf("brevo request: %w", err)
	}
	if resp != nil && resp.StatusCode/100 != 2 {
		return fmt.Errorf("brevo returned %s", resp.Status)
	}
	return nil
}
