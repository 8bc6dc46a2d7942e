package metrics

import "time"

// ExclusionReason labels why a content item was kept out of the sitemap.
type ExclusionReason string

const (
	ExcludedPrivate ExclusionReason = "private"
	ExcludedHidden  ExclusionReason = "hidden"
	ExcludedPattern ExclusionReason = "pattern"
)

// Recorder defines observability hooks for sitemap builds. Implementations
// may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	IncEntryAdded(kind string)
	IncEntryExcluded(reason ExclusionReason)
	IncFallback(field string)
	IncFileWritten(format string, compressed bool)
	SetEntriesWritten(n int)
	ObserveBuildDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncEntryAdded(string)               {}
func (NoopRecorder) IncEntryExcluded(ExclusionReason)   {}
func (NoopRecorder) IncFallback(string)                 {}
func (NoopRecorder) IncFileWritten(string, bool)        {}
func (NoopRecorder) SetEntriesWritten(int)              {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
