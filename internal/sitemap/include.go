package sitemap

import (
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// includedTimeLayout is the only string form accepted for an included URL's "lm".
const includedTimeLayout = "2006-01-02T15:04:05"

// MakeIncludedURLEntries converts operator-supplied inclusion specs into
// entries. Specs without a string "url" are skipped; invalid optional fields
// (lm, freq, pri) are dropped with a warning and the entry is still included.
func MakeIncludedURLEntries(raw []map[string]any, loc *time.Location, logger *slog.Logger) []Entry {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	entries := make([]Entry, 0, len(raw))
	for _, inc := range raw {
		rawURL, ok := inc["url"].(string)
		if !ok || strings.TrimSpace(rawURL) == "" {
			logger.Warn("URL inclusion has no usable url; skipping", logfields.Value(inc))
			continue
		}

		entry, err := NewEntry(
			escapeURL(rawURL),
			includedLastModified(rawURL, inc, loc, logger),
			includedFrequency(rawURL, inc, logger),
			includedPriority(rawURL, inc, logger),
		)
		if err != nil {
			logger.Warn("URL inclusion rejected", logfields.URL(rawURL), logfields.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func includedLastModified(rawURL string, inc map[string]any, loc *time.Location, logger *slog.Logger) foundation.Option[time.Time] {
	v, ok := inc["lm"]
	if !ok || v == nil {
		return foundation.None[time.Time]()
	}

	switch lm := v.(type) {
	case time.Time:
		return foundation.Some(lm)
	case string:
		t, err := time.ParseInLocation(includedTimeLayout, lm, loc)
		if err != nil {
			logger.Warn("Included URL modified date does not match format; skipping",
				logfields.URL(rawURL), slog.String("expected", includedTimeLayout))
			logger.Debug("Last modified value", logfields.Value(v))
			return foundation.None[time.Time]()
		}
		return foundation.Some(t)
	}

	if n, isNum := asNumber(v); isNum {
		sec := int64(n)
		nsec := int64((n - float64(sec)) * float64(time.Second))
		return foundation.Some(time.Unix(sec, nsec).In(loc))
	}

	logger.Warn("Included URL modified date invalid; skipping", logfields.URL(rawURL))
	logger.Debug("Last modified value", logfields.Value(v))
	return foundation.None[time.Time]()
}

func includedFrequency(rawURL string, inc map[string]any, logger *slog.Logger) foundation.Option[Frequency] {
	v, ok := inc["freq"]
	if !ok || v == nil {
		return foundation.None[Frequency]()
	}
	if s, isString := v.(string); isString {
		if f, valid := ParseFrequency(s); valid {
			return foundation.Some(f)
		}
	}
	logger.Warn("Included URL frequency invalid; skipping", logfields.URL(rawURL))
	logger.Debug("Frequency value", logfields.Value(v))
	return foundation.None[Frequency]()
}

func includedPriority(rawURL string, inc map[string]any, logger *slog.Logger) foundation.Option[float64] {
	v, ok := inc["pri"]
	if !ok || v == nil {
		return foundation.None[float64]()
	}
	if p, isNum := asNumber(v); isNum && ValidPriority(p) {
		return foundation.Some(p)
	}
	logger.Warn("Included URL priority invalid; skipping", logfields.URL(rawURL))
	logger.Debug("Priority value", logfields.Value(v))
	return foundation.None[float64]()
}
