package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
	"git.home.luguber.info/inful/sitemapgen/internal/retry"
)

const (
	connectTimeout = 5 * time.Second
	flushTimeout   = 5 * time.Second
)

// conn is the subset of *nats.Conn used for publishing.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes notifications as JSON on a NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	policy  retry.Policy
}

// Option configures a NATSPublisher.
type Option func(*NATSPublisher)

// WithRetry retries failed publishes according to p.
func WithRetry(p retry.Policy) Option {
	return func(n *NATSPublisher) { n.policy = p }
}

// NewNATSPublisher connects to the NATS server at url. Publishes are not
// retried unless WithRetry is given.
func NewNATSPublisher(url, subject string, opts ...Option) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("sitemapgen"),
		nats.Timeout(connectTimeout),
	)
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}

	slog.Info("NATS publisher connected", logfields.URL(url), slog.String("subject", subject))
	return newNATSPublisher(nc, subject, opts...), nil
}

func newNATSPublisher(c conn, subject string, opts ...Option) *NATSPublisher {
	p := &NATSPublisher{conn: c, subject: subject, policy: retry.NewPolicy("", 0, 0, 0)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends msg and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, msg Published) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.NotifyError("failed to marshal notification").WithCause(err).Build()
	}

	err = p.policy.Do(ctx, "nats publish", func(ctx context.Context) error {
		return p.publish(ctx, data)
	})
	if err != nil {
		return err
	}

	slog.Debug("Published sitemap notification",
		logfields.BuildID(msg.BuildID),
		logfields.URL(msg.SitemapURL),
		slog.String("subject", p.subject))
	return nil
}

func (p *NATSPublisher) publish(ctx context.Context, data []byte) error {
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.NotifyError("failed to publish notification").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.NotifyError("failed to flush notification").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
