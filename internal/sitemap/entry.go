package sitemap

import (
	"math"
	"time"

	"git.home.luguber.info/inful/sitemapgen/internal/foundation"
	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/foundation/normalization"
)

// Frequency is a sitemaps.org changefreq value.
type Frequency string

const (
	FrequencyAlways  Frequency = "always"
	FrequencyHourly  Frequency = "hourly"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyNever   Frequency = "never"
)

var frequencyNormalizer = normalization.NewStrictNormalizer(map[string]Frequency{
	"always":  FrequencyAlways,
	"hourly":  FrequencyHourly,
	"daily":   FrequencyDaily,
	"weekly":  FrequencyWeekly,
	"monthly": FrequencyMonthly,
	"yearly":  FrequencyYearly,
	"never":   FrequencyNever,
}, FrequencyMonthly)

// ParseFrequency accepts only the exact lower-case changefreq values.
func ParseFrequency(raw string) (Frequency, bool) {
	return frequencyNormalizer.Lookup(raw)
}

// ValidPriority reports whether p is a usable sitemap priority.
func ValidPriority(p float64) bool {
	return !math.IsNaN(p) && p >= 0.0 && p <= 1.0
}

// Entry is one URL destined for a sitemap document. Entries are immutable;
// construct them with NewEntry.
type Entry struct {
	url          string
	lastModified foundation.Option[time.Time]
	frequency    foundation.Option[Frequency]
	priority     foundation.Option[float64]
}

// NewEntry validates the frequency and priority invariants and returns the entry.
// Index-file entries carry only a URL and a last-modified time.
func NewEntry(url string, lastModified foundation.Option[time.Time], frequency foundation.Option[Frequency], priority foundation.Option[float64]) (Entry, error) {
	if url == "" {
		return Entry{}, derrors.NewError(derrors.CategoryValidation, "sitemap entry url is empty").Build()
	}
	if f, ok := frequency.Get(); ok {
		if _, valid := ParseFrequency(string(f)); !valid {
			return Entry{}, derrors.NewError(derrors.CategoryValidation, "invalid sitemap frequency").
				WithContext("url", url).WithContext("frequency", string(f)).Build()
		}
	}
	if p, ok := priority.Get(); ok && !ValidPriority(p) {
		return Entry{}, derrors.NewError(derrors.CategoryValidation, "sitemap priority out of range").
			WithContext("url", url).WithContext("priority", p).Build()
	}
	return Entry{url: url, lastModified: lastModified, frequency: frequency, priority: priority}, nil
}

func (e Entry) URL() string                                { return e.url }
func (e Entry) LastModified() foundation.Option[time.Time] { return e.lastModified }
func (e Entry) Frequency() foundation.Option[Frequency]    { return e.frequency }
func (e Entry) Priority() foundation.Option[float64]       { return e.priority }
