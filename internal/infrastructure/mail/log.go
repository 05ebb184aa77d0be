package mail

import (
	"context"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/rs/zerolog"
)

// LogMailer writes messages to the log instead of sending them. Used when no
// SendGrid key is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg ports.Message) error {
	m.log.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Msg("email (log only; set SENDGRID_API_KEY for real email)")
	return nil
}

var _ ports.Mailer = (*LogMailer)(nil)
