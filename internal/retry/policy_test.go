package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapgen/internal/config"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, config.RetryBackoffLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial, "initial is clamped to max")
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, config.RetryBackoffFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("bogus", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestFromNotifyConfig(t *testing.T) {
	p := FromNotifyConfig(config.NotifyConfig{
		MaxRetries:        3,
		RetryBackoff:      config.RetryBackoffExponential,
		RetryInitialDelay: "200ms",
		RetryMaxDelay:     "1s",
	})
	assert.Equal(t, Policy{Mode: config.RetryBackoffExponential, Initial: 200 * time.Millisecond, Max: time.Second, MaxRetries: 3}, p)

	p = FromNotifyConfig(config.NotifyConfig{})
	assert.Equal(t, 0, p.MaxRetries, "retries are off unless configured")
}

// TestDelayModes ensures fixed, linear, exponential behave and respect cap.
func TestDelayModes(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   []time.Duration
	}{
		{
			name:   "fixed",
			policy: NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3),
			want:   []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond},
		},
		{
			name:   "linear",
			policy: NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5),
			want:   []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond},
		},
		{
			name:   "exponential",
			policy: NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5),
			want:   []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 160 * time.Millisecond, 160 * time.Millisecond},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, tt.policy.Delay(i+1), "attempt %d", i+1)
			}
		})
	}
}

func TestDelayEdgeCases(t *testing.T) {
	p := NewPolicy(config.RetryBackoffLinear, 10*time.Millisecond, 20*time.Millisecond, 1)
	assert.Zero(t, p.Delay(0))
	assert.Zero(t, p.Delay(-1))

	exp := NewPolicy(config.RetryBackoffExponential, time.Second, time.Minute, 100)
	assert.Equal(t, time.Minute, exp.Delay(80), "overflow is capped")
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: 0, Max: time.Second, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 0, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDo(t *testing.T) {
	fast := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)
	errBoom := errors.New("boom")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := fast.Do(t.Context(), "test", func(context.Context) error {
			calls++
			if calls < 3 {
				return errBoom
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when retries are used up", func(t *testing.T) {
		calls := 0
		err := fast.Do(t.Context(), "test", func(context.Context) error {
			calls++
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, 3, calls)
	})

	t.Run("no retries", func(t *testing.T) {
		calls := 0
		err := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 0).Do(t.Context(), "test", func(context.Context) error {
			calls++
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when cancelled", func(t *testing.T) {
		slow := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 1)
		ctx, cancel := context.WithCancel(t.Context())
		err := slow.Do(ctx, "test", func(context.Context) error {
			cancel()
			return errBoom
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}
