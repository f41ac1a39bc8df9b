package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	texttemplate "text/template"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
)

const defaultAdminEmail = "admin@goras.com"

// Result reports the outcome of one notification. Skipped means no transport
// was available or delivery failed and was dropped.
type Result struct {
	Success bool
	Error   string
	Skipped bool
}

// Notifier renders order emails and hands them to a Mailer. It never returns
// an error or panics past its caller; the outcome is in the Result.
type Notifier struct {
	mailer Mailer
	from   Address
	admin  Address
	log    *slog.Logger
}

func NewNotifier(mailer Mailer, from Address, adminEmail string, log *slog.Logger) *Notifier {
	if adminEmail == "" {
		adminEmail = defaultAdminEmail
	}
	return &Notifier{
		mailer: mailer,
		from:   from,
		admin:  Address{Email: adminEmail},
		log:    log.With("component", "notify"),
	}
}

func (n *Notifier) OrderCreated(ctx context.Context, order *models.Order, customer *models.User) Result {
	data := newEmailData(order, customer)
	msg, err := n.render(data, orderCreatedHTML, orderCreatedText)
	if err != nil {
		return n.fail(order, "render order email", err)
	}
	msg.Subject = fmt.Sprintf("New Order: %s - ₹%s", order.OrderNumber, data.Total)
	return n.deliver(ctx, order, msg)
}

// PaymentProofUploaded attaches the proof image when it can be read from
// proofPath and otherwise sends the notification without it.
func (n *Notifier) PaymentProofUploaded(ctx context.Context, order *models.Order, customer *models.User, proofPath string) Result {
	var attachments []Attachment
	if proofPath != "" {
		content, err := os.ReadFile(proofPath)
		if err != nil {
			n.log.Warn("Failed to read payment proof file; sending without attachment",
				"order_number", order.OrderNumber, "error", err)
		} else {
			name := filepath.Base(proofPath)
			attachments = append(attachments, Attachment{
				Name:        name,
				ContentType: mime.TypeByExtension(filepath.Ext(name)),
				Content:     content,
			})
		}
	}

	data := newEmailData(order, customer)
	data.HasAttachment = len(attachments) > 0
	msg, err := n.render(data, upiPaymentHTML, upiPaymentText)
	if err != nil {
		return n.fail(order, "render payment email", err)
	}
	msg.Subject = fmt.Sprintf("UPI Payment - %s - ₹%s [VERIFY]", order.OrderNumber, data.Total)
	msg.Attachments = attachments
	return n.deliver(ctx, order, msg)
}

func (n *Notifier) render(data emailData, html *htmltemplate.Template, text *texttemplate.Template) (Message, error) {
	var hb, tb bytes.Buffer
	if err := html.Execute(&hb, data); err != nil {
		return Message{}, err
	}
	if err := text.Execute(&tb, data); err != nil {
		return Message{}, err
	}
	return Message{
		From: n.from,
		To:   []Address{n.admin},
		HTML: hb.String(),
		Text: tb.String(),
	}, nil
}

func (n *Notifier) deliver(ctx context.Context, order *models.Order, msg Message) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("Mailer panicked", "order_number", order.OrderNumber, "panic", r)
			res = Result{Error: fmt.Sprint(r), Skipped: true}
		}
	}()

	if err := n.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return Result{Error: err.Error(), Skipped: true}
		}
		return n.fail(order, "send email", err)
	}
	n.log.Info("Notification email sent", "order_number", order.OrderNumber, "to", n.admin.Email,
		"attachments", len(msg.Attachments))
	return Result{Success: true}
}

func (n *Notifier) fail(order *models.Order, op string, err error) Result {
	n.log.Error("Failed to "+op+"; the order itself is unaffected", "order_number", order.OrderNumber, "error", err)
	return Result{Error: err.Error(), Skipped: true}
}
