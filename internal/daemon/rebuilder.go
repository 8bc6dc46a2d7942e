package daemon

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/sitemapgen/internal/build"
	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// Rebuilder runs builds for long-lived commands. It remembers the fingerprint
// of the last written sitemap so unchanged content is not rewritten.
//
// Outputs wired at startup (history, notifications, metrics) are not
// re-created when the configuration is reloaded.
type Rebuilder struct {
	configPath string
	service    *build.Service
	logger     *slog.Logger

	mu          sync.Mutex
	cfg         *config.Config
	fingerprint string
}

// NewRebuilder creates a Rebuilder starting from an already loaded cfg.
func NewRebuilder(configPath string, cfg *config.Config, svc *build.Service, logger *slog.Logger) *Rebuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebuilder{configPath: configPath, cfg: cfg, service: svc, logger: logger}
}

// Config returns the configuration used by the next build.
func (r *Rebuilder) Config() *config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Rebuild runs one build. With reloadConfig the configuration file is read
// again first; if it no longer loads, the previous configuration is kept and
// no build runs.
func (r *Rebuilder) Rebuild(ctx context.Context, reloadConfig bool) (*build.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reloadConfig {
		cfg, err := config.Load(r.configPath)
		if err != nil {
			r.logger.Error("Failed to reload configuration; keeping previous",
				logfields.File(r.configPath), logfields.Error(err))
			return nil, err
		}
		r.cfg = cfg
		r.fingerprint = ""
		r.logger.Info("Configuration reloaded", logfields.File(r.configPath))
	}

	result, err := r.service.Run(ctx, r.cfg, build.RunOptions{SkipIfFingerprint: r.fingerprint})
	if err != nil {
		return result, err
	}
	if result.Status == build.StatusSuccess {
		r.fingerprint = result.Fingerprint
	}
	return result, nil
}

// OnChange adapts Rebuild to a Watcher. Failures are already logged.
func (r *Rebuilder) OnChange(ctx context.Context, configChanged bool) {
	_, _ = r.Rebuild(ctx, configChanged)
}
