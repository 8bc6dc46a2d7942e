package daemon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestScheduler_ScheduleCron(t *testing.T) {
	t.Run("returns job id for valid cron", func(t *testing.T) {
		s := newTestScheduler(t)

		id, err := s.ScheduleCron(t.Context(), "test", "0 */4 * * *", func(context.Context) {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects invalid cron", func(t *testing.T) {
		s := newTestScheduler(t)

		_, err := s.ScheduleCron(t.Context(), "test", "this is not a cron", func(context.Context) {})
		require.Error(t, err)
		assert.Equal(t, ferrors.CategoryValidation, ferrors.GetCategory(err))
	})

	t.Run("rejects empty cron", func(t *testing.T) {
		s := newTestScheduler(t)

		_, err := s.ScheduleCron(t.Context(), "test", "", func(context.Context) {})
		require.Error(t, err)
	})
}

func TestScheduler_ScheduleEvery(t *testing.T) {
	t.Run("returns job id for valid interval", func(t *testing.T) {
		s := newTestScheduler(t)

		id, err := s.ScheduleEvery(t.Context(), "test", 10*time.Second, func(context.Context) {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		s := newTestScheduler(t)

		_, err := s.ScheduleEvery(t.Context(), "test", 0, func(context.Context) {})
		require.Error(t, err)
		assert.Equal(t, ferrors.CategoryValidation, ferrors.GetCategory(err))
	})

	t.Run("runs immediately after start", func(t *testing.T) {
		s := newTestScheduler(t)
		var runs atomic.Int32

		_, err := s.ScheduleEvery(t.Context(), "test", time.Hour, func(context.Context) { runs.Add(1) })
		require.NoError(t, err)
		s.Start()

		assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("passes the schedule context to the task", func(t *testing.T) {
		s := newTestScheduler(t)
		type key struct{}
		ctx := context.WithValue(t.Context(), key{}, "marker")
		got := make(chan any, 1)

		_, err := s.ScheduleEvery(ctx, "test", time.Hour, func(c context.Context) {
			select {
			case got <- c.Value(key{}):
			default:
			}
		})
		require.NoError(t, err)
		s.Start()

		select {
		case v := <-got:
			assert.Equal(t, "marker", v)
		case <-time.After(2 * time.Second):
			t.Fatal("task did not run")
		}
	})
}
