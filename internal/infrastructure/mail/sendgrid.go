// Package mail implements ports.Mailer.
package mail

import (
	"context"
	"fmt"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg ports.Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

var _ ports.Mailer = (*SendGridMailer)(nil)
