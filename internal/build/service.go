package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/content"
	"git.home.luguber.info/inful/sitemapgen/internal/eventstore"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
	"git.home.luguber.info/inful/sitemapgen/internal/metrics"
	"git.home.luguber.info/inful/sitemapgen/internal/notify"
	"git.home.luguber.info/inful/sitemapgen/internal/observability"
	"git.home.luguber.info/inful/sitemapgen/internal/sitemap"
)

// Service executes sitemap builds. One Service may run many builds, one at a
// time.
type Service struct {
	logger         *slog.Logger
	recorder       metrics.Recorder
	gatherer       prom.Gatherer
	history        eventstore.Store
	publisher      notify.Publisher
	maxURLsPerFile int
	now            func() time.Time
	newID          func() string
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithGatherer enables the metrics textfile export from g.
func WithGatherer(g prom.Gatherer) Option {
	return func(s *Service) { s.gatherer = g }
}

// WithHistory records build events in store.
func WithHistory(store eventstore.Store) Option {
	return func(s *Service) { s.history = store }
}

func WithPublisher(p notify.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithMaxURLsPerFile(n int) Option {
	return func(s *Service) { s.maxURLsPerFile = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the build ID source, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService creates a Service. Without options it logs to slog.Default and
// records neither metrics, history nor notifications.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger:         slog.Default(),
		recorder:       metrics.NoopRecorder{},
		publisher:      notify.NoopPublisher{},
		maxURLsPerFile: sitemap.MaxURLPerFile,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one build with the outputs configured in cfg.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) (*Result, error) {
	svc := FromConfig(cfg, slog.Default())
	defer func() { _ = svc.Close() }()
	return svc.Run(ctx, cfg, opts)
}

// Run discovers content, collects sitemap entries and writes the sitemap.
// Cancellation is honored until the write starts; a cancelled build writes
// nothing.
func (s *Service) Run(ctx context.Context, cfg *config.Config, opts RunOptions) (*Result, error) {
	start := s.now()
	result := &Result{BuildID: s.newID(), StartTime: start}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	fail := func(stage string, err error) (*Result, error) {
		result.Status = StatusFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.Status = StatusCancelled
		}
		s.finish(result)
		logger := observability.Logger(observability.WithStage(ctx, stage), s.logger)
		logger.Error("Build failed", logfields.Error(err), logfields.DurationMS(msec(result.Duration)))
		ev, evErr := eventstore.NewBuildFailed(result.BuildID, stage, err.Error())
		s.record(ctx, logger, ev, evErr)
		return result, err
	}

	stageCtx := observability.WithStage(ctx, eventstore.StageConfig)
	gen, err := sitemap.New(sitemap.SiteSettings{
		SiteURL:  cfg.SiteURL,
		Timezone: cfg.Timezone,
		Sitemap:  cfg.Sitemap,
	}, cfg.Output.Directory,
		sitemap.WithLogger(observability.Logger(stageCtx, s.logger)),
		sitemap.WithRecorder(s.recorder),
		sitemap.WithMaxURLsPerFile(s.maxURLsPerFile),
		sitemap.WithClock(s.now),
	)
	if err != nil {
		return fail(eventstore.StageConfig, err)
	}

	stageCtx = observability.WithStage(ctx, eventstore.StageDiscover)
	items, err := content.Discover(stageCtx, content.Options{
		Dir:        cfg.Content.Directory,
		PagesDir:   cfg.Content.PagesDir,
		GitLastmod: cfg.Content.GitLastmod,
		Logger:     observability.Logger(stageCtx, s.logger),
	})
	if err != nil {
		return fail(eventstore.StageDiscover, err)
	}
	result.Fingerprint = content.Fingerprint(items)

	logger := observability.Logger(ctx, s.logger)
	if opts.SkipIfFingerprint != "" && opts.SkipIfFingerprint == result.Fingerprint {
		result.Status = StatusSkipped
		s.finish(result)
		logger.Info("Content unchanged; skipping sitemap write", logfields.Count(len(items)))
		return result, nil
	}

	settings := gen.Settings()
	started, err := eventstore.NewBuildStarted(result.BuildID, settings.SiteURL, string(settings.Format))
	s.record(ctx, logger, started, err)

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return fail(eventstore.StageCollect, err)
		}
		gen.AddEntry(it.OutputPath(), it)
	}
	if err := ctx.Err(); err != nil {
		return fail(eventstore.StageCollect, err)
	}

	if err := gen.WriteOutput(); err != nil {
		return fail(eventstore.StageWrite, err)
	}

	written := gen.LastWrite()
	result.Status = StatusSuccess
	result.Entries = written.Entries
	result.Files = written.Files
	result.SitemapURL = written.RootURL
	s.finish(result)

	s.exportMetrics(cfg, logger)
	writtenEv, err := eventstore.NewSitemapWritten(result.BuildID, result.Entries, len(result.Files), settings.OutPath)
	s.record(ctx, logger, writtenEv, err)
	if result.Entries > 0 {
		s.notify(ctx, logger, cfg, result)
	}

	logger.Info("Build completed",
		logfields.Count(result.Entries),
		slog.Int("files", len(result.Files)),
		logfields.DurationMS(msec(result.Duration)))
	return result, nil
}

func (s *Service) finish(result *Result) {
	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.recorder.ObserveBuildDuration(result.Duration)
}

// record appends a build event. History failures are logged only.
func (s *Service) record(ctx context.Context, logger *slog.Logger, event eventstore.Event, err error) {
	if s.history == nil {
		return
	}
	if err == nil {
		err = eventstore.Record(context.WithoutCancel(ctx), s.history, event)
	}
	if err != nil {
		logger.Warn("Failed to record build event", logfields.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, logger *slog.Logger, cfg *config.Config, result *Result) {
	err := s.publisher.Publish(context.WithoutCancel(ctx), notify.Published{
		BuildID:    result.BuildID,
		SiteURL:    cfg.SiteURL,
		SitemapURL: result.SitemapURL,
		Entries:    result.Entries,
		Files:      len(result.Files),
		Timestamp:  result.EndTime,
	})
	if err != nil {
		logger.Warn("Failed to publish sitemap notification", logfields.Error(err))
	}
}

func (s *Service) exportMetrics(cfg *config.Config, logger *slog.Logger) {
	if cfg.Metrics.Textfile == "" || s.gatherer == nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Metrics.Textfile), 0o750); err != nil {
		logger.Warn("Failed to create metrics directory", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		return
	}
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile, s.gatherer); err != nil {
		logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func msec(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
