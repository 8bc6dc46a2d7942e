package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
)

// Scheduler wraps gocron scheduler for managing periodic tasks.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create gocron scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs task every interval, starting immediately. Returns the
// job ID.
func (s *Scheduler) ScheduleEvery(ctx context.Context, name string, interval time.Duration, task func(context.Context)) (string, error) {
	if interval <= 0 {
		return "", ferrors.NewError(ferrors.CategoryValidation, "schedule interval must be > 0").
			WithContext("interval", interval.String()).
			Build()
	}
	return s.schedule(ctx, name, gocron.DurationJob(interval), task,
		gocron.WithStartAt(gocron.WithStartImmediately()))
}

// ScheduleCron runs task on a standard five-field cron expression. Returns
// the job ID.
func (s *Scheduler) ScheduleCron(ctx context.Context, name, expr string, task func(context.Context)) (string, error) {
	if expr == "" {
		return "", ferrors.NewError(ferrors.CategoryValidation, "cron expression is required").Build()
	}
	return s.schedule(ctx, name, gocron.CronJob(expr, false), task)
}

// schedule registers a job. A run still busy when the next one is due pushes
// that one back, so runs never overlap.
func (s *Scheduler) schedule(ctx context.Context, name string, def gocron.JobDefinition, task func(context.Context), extra ...gocron.JobOption) (string, error) {
	opts := append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, extra...)

	job, err := s.scheduler.NewJob(def, gocron.NewTask(func() { task(ctx) }), opts...)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryValidation, "failed to create scheduled job").
			WithContext("name", name).
			Build()
	}
	slog.Info("Scheduled sitemap rebuild", "name", name, "job_id", job.ID().String())
	return job.ID().String(), nil
}
