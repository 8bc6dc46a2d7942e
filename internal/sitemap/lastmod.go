package sitemap

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// LastModified resolves the most recent modification time of c: its
// "modified" metadata, else its "date" metadata, else now. Date strings are
// interpreted in loc.
func LastModified(c Content, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return lastModified(c.Metadata(), loc, time.Now, slog.Default())
}

func lastModified(md Metadata, loc *time.Location, now func() time.Time, logger *slog.Logger) time.Time {
	for _, key := range []string{"modified", "date"} {
		v, ok := md.Lookup(key)
		if !ok {
			continue
		}
		t, err := toTime(v, loc)
		if err != nil {
			logger.Warn("Content has unparsable date metadata; trying next source",
				logfields.Field(key), logfields.Value(v), logfields.Error(err))
			continue
		}
		return t
	}
	return now().In(loc)
}

func toTime(v any, loc *time.Location) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
	case string:
		return dateparse.ParseIn(strings.TrimSpace(t), loc)
	}
	return dateparse.ParseIn(strings.TrimSpace(toString(v)), loc)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := asNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// parsePriority accepts numbers and numeric strings.
func parsePriority(v any) (float64, bool) {
	if n, ok := asNumber(v); ok {
		return n, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return p, true
}

func someTime(t time.Time) foundation.Option[time.Time]      { return foundation.Some(t) }
func someFrequency(f Frequency) foundation.Option[Frequency] { return foundation.Some(f) }
func someFloat(f float64) foundation.Option[float64]         { return foundation.Some(f) }
