package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapgen/internal/build"
	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/daemon"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	Every time.Duration `help:"Rebuild interval" default:"1h"`
	Cron  string        `help:"Five-field cron expression; takes precedence over --every"`
}

func (s *ScheduleCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.loadConfig(glob)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return RunSchedule(ctx, root.Config, cfg, s.Every, s.Cron, glob.Logger)
}

// RunSchedule rebuilds on the given schedule until ctx is cancelled. Runs
// whose content has not changed since the previous write are skipped.
func RunSchedule(ctx context.Context, configPath string, cfg *config.Config, every time.Duration, cron string, logger *slog.Logger) error {
	svc := build.FromConfig(cfg, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close build outputs", logfields.Error(err))
		}
	}()

	rebuilder := daemon.NewRebuilder(configPath, cfg, svc, logger)
	scheduler, err := daemon.NewScheduler()
	if err != nil {
		return err
	}

	if cron != "" {
		_, err = scheduler.ScheduleCron(ctx, "sitemap", cron, func(ctx context.Context) { rebuilder.OnChange(ctx, false) })
	} else {
		_, err = scheduler.ScheduleEvery(ctx, "sitemap", every, func(ctx context.Context) { rebuilder.OnChange(ctx, false) })
	}
	if err != nil {
		_ = scheduler.Stop()
		return err
	}

	scheduler.Start()
	<-ctx.Done()
	return scheduler.Stop()
}
