package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/lindenpm/linden/pkg/config"
)

// Message is one outgoing transactional email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Mailer sends transactional email. Sends happen on the worker; failures are
// logged by the caller and never propagate to the request that queued them.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SendGridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

func NewSendGridMailer(cfg *config.EmailConfig) *SendGridMailer {
	return &SendGridMailer{
		client:      sendgrid.NewSendClient(cfg.APIKey),
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(m.fromName, m.fromAddress)
	to := mail.NewEmail(msg.ToName, msg.ToAddress)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainBody, msg.HTMLBody)

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

var _ Mailer = (*SendGridMailer)(nil)
