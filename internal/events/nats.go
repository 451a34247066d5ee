package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultSubject prefixes the subject events are published on.
const DefaultSubject = "cectoolkit.ticket.processed"

// NATSPublisher publishes events as JSON on <subject>.<kind>.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher returns a publisher on nc. An empty subject uses DefaultSubject.
func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: nc, subject: subject}
}

// Subject returns the subject used for events of kind.
func (p *NATSPublisher) Subject(kind string) string {
	return p.subject + "." + kind
}

// Handle implements Handler.
func (p *NATSPublisher) Handle(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(e.Kind), data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Connect dials url. A non-empty token authenticates the connection.
func Connect(url, token string) (*nats.Conn, error) {
	opts := []nats.Option{nats.Name("cectoolkit")}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}
