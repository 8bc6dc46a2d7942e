// Package notify announces freshly written sitemaps to other systems.
package notify

import (
	"context"
	"time"
)

// Published describes one successful sitemap write.
type Published struct {
	BuildID    string    `json:"build_id"`
	SiteURL    string    `json:"site_url"`
	SitemapURL string    `json:"sitemap_url"`
	Entries    int       `json:"entries"`
	Files      int       `json:"files"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers Published notifications.
type Publisher interface {
	Publish(ctx context.Context, msg Published) error
	Close() error
}

// NoopPublisher discards notifications.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Published) error { return nil }
func (NoopPublisher) Close() error                             { return nil }

// New returns a NATS publisher for natsURL, or a NoopPublisher when natsURL is empty.
func New(natsURL, subject string, opts ...Option) (Publisher, error) {
	if natsURL == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(natsURL, subject, opts...)
}
