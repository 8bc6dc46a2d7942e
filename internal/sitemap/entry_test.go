package sitemap

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation"
	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
)

func TestParseFrequency(t *testing.T) {
	for _, f := range []string{"always", "hourly", "daily", "weekly", "monthly", "yearly", "never"} {
		got, ok := ParseFrequency(f)
		assert.True(t, ok, f)
		assert.Equal(t, Frequency(f), got)
	}
	for _, f := range []string{"", "sometimes", "Daily", " weekly"} {
		_, ok := ParseFrequency(f)
		assert.False(t, ok, "%q should be rejected", f)
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.5, 1} {
		assert.True(t, ValidPriority(p), p)
	}
	for _, p := range []float64{-0.0001, 1.0001, -1, 2, math.NaN(), math.Inf(1)} {
		assert.False(t, ValidPriority(p), p)
	}
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2020, 6, 9, 16, 20, 0, 0, time.UTC)

	t.Run("full entry", func(t *testing.T) {
		e, err := NewEntry("http://example.com/a.html", foundation.Some(now), foundation.Some(FrequencyNever), foundation.Some(0.5))
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/a.html", e.URL())
		assert.Equal(t, now, e.LastModified().Unwrap())
		assert.Equal(t, FrequencyNever, e.Frequency().Unwrap())
		assert.InDelta(t, 0.5, e.Priority().Unwrap(), 0)
	})

	t.Run("index entry without frequency and priority", func(t *testing.T) {
		e, err := NewEntry("http://example.com/sitemap1.xml", foundation.Some(now), foundation.None[Frequency](), foundation.None[float64]())
		require.NoError(t, err)
		assert.True(t, e.Frequency().IsNone())
		assert.True(t, e.Priority().IsNone())
	})

	t.Run("rejects out of range priority", func(t *testing.T) {
		_, err := NewEntry("http://example.com/a.html", foundation.None[time.Time](), foundation.None[Frequency](), foundation.Some(1.5))
		require.Error(t, err)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
	})

	t.Run("rejects unknown frequency", func(t *testing.T) {
		_, err := NewEntry("http://example.com/a.html", foundation.None[time.Time](), foundation.Some(Frequency("sometimes")), foundation.None[float64]())
		require.Error(t, err)
	})

	t.Run("rejects empty url", func(t *testing.T) {
		_, err := NewEntry("", foundation.None[time.Time](), foundation.None[Frequency](), foundation.None[float64]())
		require.Error(t, err)
	})
}

func TestEscapeURL(t *testing.T) {
	assert.Equal(t, "http://example.com/a/b.html", escapeURL("http://example.com/a/b.html"))
	assert.Equal(t, "posts/hello%20world.html", escapeURL("posts/hello world.html"))
	assert.Equal(t, "caf%C3%A9.html", escapeURL("café.html"))
	assert.Equal(t, "search%3Fq%3Dgo", escapeURL("search?q=go"))
	assert.Equal(t, "a_b-c.d~e", escapeURL("a_b-c.d~e"))
}

func TestMetadataTruthy(t *testing.T) {
	md := Metadata{
		"yes":      true,
		"no":       false,
		"strTrue":  "True",
		"strFalse": "false",
		"word":     "draft",
		"empty":    "",
		"one":      1,
		"zero":     0,
		"nil":      nil,
	}
	for _, k := range []string{"yes", "strTrue", "word", "one"} {
		assert.True(t, md.Truthy(k), k)
	}
	for _, k := range []string{"no", "strFalse", "empty", "zero", "nil", "missing"} {
		assert.False(t, md.Truthy(k), k)
	}
	assert.False(t, Metadata(nil).Truthy("private"))
}
