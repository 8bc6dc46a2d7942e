package build

import (
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/eventstore"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
	"git.home.luguber.info/inful/sitemapgen/internal/metrics"
	"git.home.luguber.info/inful/sitemapgen/internal/notify"
	"git.home.luguber.info/inful/sitemapgen/internal/retry"
)

// FromConfig creates a Service wired to the metrics, history and notification
// outputs enabled in cfg. An output that cannot be opened is logged and left
// out; it never prevents a build. Call Close when done.
func FromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	base := []Option{WithLogger(logger)}

	if cfg.Metrics.Textfile != "" {
		rec := metrics.NewPrometheusRecorder(nil)
		base = append(base, WithRecorder(rec), WithGatherer(rec.Registry()))
	}

	if cfg.HistoryEnabled() {
		store, err := eventstore.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			logger.Warn("Build history unavailable", logfields.Path(cfg.History.Path), logfields.Error(err))
		} else {
			base = append(base, WithHistory(store))
		}
	}

	if cfg.NotifyEnabled() {
		pub, err := notify.New(cfg.Notify.NATSURL, cfg.Notify.Subject,
			notify.WithRetry(retry.FromNotifyConfig(cfg.Notify)))
		if err != nil {
			logger.Warn("Sitemap notifications unavailable", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		} else {
			base = append(base, WithPublisher(pub))
		}
	}

	return NewService(append(base, opts...)...)
}

// Close releases the history store and the notification publisher.
func (s *Service) Close() error {
	var errs []error
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	if s.publisher != nil {
		errs = append(errs, s.publisher.Close())
	}
	return errors.Join(errs...)
}
