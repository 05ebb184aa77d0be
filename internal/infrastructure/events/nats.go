package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
	IsConnected() bool
}

// NATSPublisher publishes each event on "<prefix>.<status>", e.g.
// purchases.completed.
type NATSPublisher struct {
	nc     Conn
	prefix string
	log    zerolog.Logger
}

func NewNATSPublisher(nc Conn, prefix string, log zerolog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = "purchases"
	}
	return &NATSPublisher{nc: nc, prefix: prefix, log: log}
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url, name string, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

func (p *NATSPublisher) Subject(event ports.DomainEvent) string {
	return p.prefix + "." + event.Status
}

func (p *NATSPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	if !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	subj := p.Subject(event)
	if err := p.nc.Publish(subj, data); err != nil {
		return fmt.Errorf("publish %s: %w", subj, err)
	}
	p.log.Debug().Str("subject", subj).Str("payment_id", event.PaymentID).Msg("event published")
	return nil
}

var _ ports.EventPublisher = (*NATSPublisher)(nil)
