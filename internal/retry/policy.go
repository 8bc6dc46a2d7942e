// Package retry provides backoff policies for transient failures.
package retry

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapgen/internal/config"
	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       config.RetryBackoffMode // fixed|linear|exponential
	Initial    time.Duration           // base delay
	Max        time.Duration           // cap for growth
	MaxRetries int                     // maximum retry attempts after the first failure
}

// DefaultPolicy returns the default policy (linear, 1s initial, 30s cap, 2 retries).
func DefaultPolicy() Policy {
	return Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 30 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
// A negative maxRetries keeps the default retry count.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDelay time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	switch mode {
	case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// FromNotifyConfig builds the publish retry policy. Durations are validated
// when the configuration is loaded.
func FromNotifyConfig(c config.NotifyConfig) Policy {
	initial, _ := time.ParseDuration(c.RetryInitialDelay)
	maxDelay, _ := time.ParseDuration(c.RetryMaxDelay)
	return NewPolicy(c.RetryBackoff, initial, maxDelay, c.MaxRetries)
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		d := p.Initial
		for i := 1; i < retryCount; i++ {
			d *= 2
			if d >= p.Max {
				return p.Max
			}
		}
		return min(d, p.Max)
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return ferrors.NewError(ferrors.CategoryValidation, "retry initial delay must be > 0").Build()
	}
	if p.Max <= 0 {
		return ferrors.NewError(ferrors.CategoryValidation, "retry max delay must be > 0").Build()
	}
	if p.MaxRetries < 0 {
		return ferrors.NewError(ferrors.CategoryValidation, "max retries cannot be negative").Build()
	}
	return nil
}

// Do runs fn until it succeeds, the retries are used up or ctx is done.
// It returns the last error from fn, or ctx's error if cancelled while
// waiting.
func (p Policy) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.Delay(attempt)
			slog.Warn("Retrying operation",
				slog.String("operation", op),
				slog.Int("attempt", attempt),
				logfields.DurationMS(float64(delay.Milliseconds())),
				logfields.Error(lastErr))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
