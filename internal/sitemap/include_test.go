package sitemap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeIncludedURLEntries(t *testing.T) {
	logger, logs := newTestLogger()
	est := time.FixedZone("EST", -5*60*60)
	dt := time.Date(2020, 6, 9, 16, 20, 0, 0, time.UTC)

	specs := []map[string]any{
		{"link": "www.example.com/bad-format.html", "lm": "2020-04-20T10:17:00", "freq": "never", "pri": 0.5},
		{"url": "www.example.com/str-priority.html", "lm": "2020-04-20T10:17:00", "freq": "never", "pri": "0.5"},
		{"url": "www.example.com/neg-priority.html", "lm": "2020-04-20T10:17:00", "freq": "never", "pri": -0.5},
		{"url": "www.example.com/bad-frequency.html", "lm": "2020-04-20T10:17:00", "freq": "sometimes", "pri": 0.5},
		{"url": "www.example.com/invalid-last-mod.html", "lm": []any{2020, 4, 20, 10, 17, 0}, "freq": "never", "pri": 0.5},
		{"url": "www.example.com/bad-format-last-mod.html", "lm": "2020-04-20", "freq": "never", "pri": 0.5},
		{"url": "www.example.com/dt-last-mod.html", "lm": dt, "freq": "never", "pri": 0.5},
		{"url": "www.example.com/tz-dt-last-mod.html", "lm": time.Date(2020, 6, 9, 16, 20, 0, 0, est), "freq": "never", "pri": 0.5},
		{"url": "www.example.com/int-last-mod.html", "lm": 1591719600, "freq": "never", "pri": 0.5},
		{"url": "www.example.com/str-last-mod.html", "lm": "2020-06-09T16:20:00", "freq": "never", "pri": 0.5},
	}

	got := MakeIncludedURLEntries(specs, time.UTC, logger)
	require.Len(t, got, 9)

	assert.Equal(t, "www.example.com/str-priority.html", got[0].URL())
	assert.True(t, got[0].Priority().IsNone())
	assert.Equal(t, FrequencyNever, got[0].Frequency().Unwrap())

	assert.Equal(t, "www.example.com/neg-priority.html", got[1].URL())
	assert.True(t, got[1].Priority().IsNone())

	assert.Equal(t, "www.example.com/bad-frequency.html", got[2].URL())
	assert.True(t, got[2].Frequency().IsNone())
	assert.InDelta(t, 0.5, got[2].Priority().Unwrap(), 0)

	assert.Equal(t, "www.example.com/invalid-last-mod.html", got[3].URL())
	assert.True(t, got[3].LastModified().IsNone())

	assert.Equal(t, "www.example.com/bad-format-last-mod.html", got[4].URL())
	assert.True(t, got[4].LastModified().IsNone())

	assert.Equal(t, "www.example.com/dt-last-mod.html", got[5].URL())
	assert.True(t, dt.Equal(got[5].LastModified().Unwrap()))

	assert.Equal(t, "www.example.com/tz-dt-last-mod.html", got[6].URL())
	tzLM := got[6].LastModified().Unwrap()
	assert.Equal(t, "EST", tzLM.Location().String())
	assert.True(t, time.Date(2020, 6, 9, 21, 20, 0, 0, time.UTC).Equal(tzLM))

	assert.Equal(t, "www.example.com/int-last-mod.html", got[7].URL())
	assert.True(t, dt.Equal(got[7].LastModified().Unwrap()))

	assert.Equal(t, "www.example.com/str-last-mod.html", got[8].URL())
	assert.True(t, dt.Equal(got[8].LastModified().Unwrap()))

	out := logs.String()
	assert.Contains(t, out, "Included URL priority invalid; skipping")
	assert.Contains(t, out, "Included URL frequency invalid; skipping")
	assert.Contains(t, out, "Included URL modified date invalid; skipping")
	assert.Contains(t, out, "Included URL modified date does not match format; skipping")
	assert.Contains(t, out, "url=www.example.com/neg-priority.html")
	assert.Contains(t, out, `msg="Priority value" value=-0.5`)
}

func TestMakeIncludedURLEntries_StringTimesUseLocation(t *testing.T) {
	logger, _ := newTestLogger()
	loc := time.FixedZone("UTC-4", -4*60*60)

	got := MakeIncludedURLEntries([]map[string]any{
		{"url": "http://example.com/a.html", "lm": "2020-06-09T12:00:00"},
		{"url": "http://example.com/b.html", "lm": 1591719600},
	}, loc, logger)

	require.Len(t, got, 2)
	a := got[0].LastModified().Unwrap()
	assert.Equal(t, loc, a.Location())
	assert.True(t, time.Date(2020, 6, 9, 16, 0, 0, 0, time.UTC).Equal(a))

	b := got[1].LastModified().Unwrap()
	assert.Equal(t, loc, b.Location())
	assert.Equal(t, "2020-06-09T12:20:00", b.Format("2006-01-02T15:04:05"))
}

func TestMakeIncludedURLEntries_OptionalFieldsAbsent(t *testing.T) {
	logger, logs := newTestLogger()

	got := MakeIncludedURLEntries([]map[string]any{{"url": "http://example.com/only-url.html"}}, time.UTC, logger)

	require.Len(t, got, 1)
	assert.True(t, got[0].LastModified().IsNone())
	assert.True(t, got[0].Frequency().IsNone())
	assert.True(t, got[0].Priority().IsNone())
	assert.NotContains(t, logs.String(), "level=WARN")
}

func TestMakeIncludedURLEntries_EscapesURL(t *testing.T) {
	logger, _ := newTestLogger()

	got := MakeIncludedURLEntries([]map[string]any{{"url": "http://example.com/a page.html"}}, time.UTC, logger)

	require.Len(t, got, 1)
	assert.Equal(t, "http://example.com/a%20page.html", got[0].URL())
}

func TestMakeIncludedURLEntries_Empty(t *testing.T) {
	got := MakeIncludedURLEntries(nil, time.UTC, nil)
	assert.Empty(t, got)
}
