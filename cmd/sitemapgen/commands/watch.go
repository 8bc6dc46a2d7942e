package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapgen/internal/build"
	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/daemon"
	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before rebuilding after a change" default:"300ms"`
}

func (w *WatchCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.loadConfig(glob)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return RunWatch(ctx, root.Config, cfg, w.Debounce, glob.Logger)
}

// RunWatch builds once, then rebuilds on changes until ctx is cancelled.
// The content directory watched is the one configured at startup.
func RunWatch(ctx context.Context, configPath string, cfg *config.Config, debounce time.Duration, logger *slog.Logger) error {
	svc := build.FromConfig(cfg, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close build outputs", logfields.Error(err))
		}
	}()

	rebuilder := daemon.NewRebuilder(configPath, cfg, svc, logger)
	if _, err := rebuilder.Rebuild(ctx, false); err != nil {
		if ferrors.HasCategory(err, ferrors.CategoryConfig) || ctx.Err() != nil {
			return err
		}
		logger.Warn("Initial build failed; watching for changes", logfields.Error(err))
	}

	watcher, err := daemon.NewWatcher(cfg.Content.Directory, configPath, rebuilder.OnChange,
		daemon.WithDebounce(debounce),
		daemon.WithWatcherLogger(logger))
	if err != nil {
		return err
	}
	if err := watcher.Run(ctx); err != nil {
		return err
	}
	logger.Info("Watch stopped")
	return nil
}
