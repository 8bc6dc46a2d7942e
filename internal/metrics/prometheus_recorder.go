package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	registry       *prom.Registry
	entriesAdded   *prom.CounterVec
	entriesExcl    *prom.CounterVec
	fallbacks      *prom.CounterVec
	filesWritten   *prom.CounterVec
	entriesWritten prom.Gauge
	lastWrite      prom.Gauge
	buildDuration  prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.entriesAdded = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "entries_added_total",
			Help:      "Sitemap entries collected by content kind",
		}, []string{"kind"})
		pr.entriesExcl = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "entries_excluded_total",
			Help:      "Content items kept out of the sitemap by reason",
		}, []string{"reason"})
		pr.fallbacks = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "validation_fallbacks_total",
			Help:      "Invalid values replaced by a default or dropped, by field",
		}, []string{"field"})
		pr.filesWritten = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "files_written_total",
			Help:      "Sitemap files written by format",
		}, []string{"format", "compressed"})
		pr.entriesWritten = prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitemapgen",
			Name:      "entries_written",
			Help:      "Number of entries in the last written sitemap set",
		})
		pr.lastWrite = prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitemapgen",
			Name:      "last_write_timestamp_seconds",
			Help:      "Unix time of the last successful sitemap write",
		})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sitemapgen",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.entriesAdded, pr.entriesExcl, pr.fallbacks, pr.filesWritten,
			pr.entriesWritten, pr.lastWrite, pr.buildDuration)
	})
	return pr
}

// Registry returns the registry the collectors were registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) IncEntryAdded(kind string) {
	if p == nil || p.entriesAdded == nil {
		return
	}
	p.entriesAdded.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncEntryExcluded(reason ExclusionReason) {
	if p == nil || p.entriesExcl == nil {
		return
	}
	p.entriesExcl.WithLabelValues(string(reason)).Inc()
}

func (p *PrometheusRecorder) IncFallback(field string) {
	if p == nil || p.fallbacks == nil {
		return
	}
	p.fallbacks.WithLabelValues(field).Inc()
}

func (p *PrometheusRecorder) IncFileWritten(format string, compressed bool) {
	if p == nil || p.filesWritten == nil {
		return
	}
	p.filesWritten.WithLabelValues(format, strconv.FormatBool(compressed)).Inc()
	p.lastWrite.SetToCurrentTime()
}

func (p *PrometheusRecorder) SetEntriesWritten(n int) {
	if p == nil || p.entriesWritten == nil {
		return
	}
	p.entriesWritten.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// for pickup by node_exporter's textfile collector.
func WriteTextfile(path string, g prom.Gatherer) error {
	return prom.WriteToTextfile(path, g)
}
