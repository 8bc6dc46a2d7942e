package build

import "time"

// Status represents the outcome of a build execution.
type Status string

const (
	// StatusSuccess indicates the sitemap was written (or there was nothing to write).
	StatusSuccess Status = "success"

	// StatusFailed indicates the build encountered an error.
	StatusFailed Status = "failed"

	// StatusSkipped indicates the content fingerprint matched the previous build.
	StatusSkipped Status = "skipped"

	// StatusCancelled indicates the context was cancelled before the write.
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusSkipped
}

// Result contains the outcome of a build execution.
type Result struct {
	BuildID string
	Status  Status

	// Entries is the number of URLs written.
	Entries int

	// Files are the sitemap files written, in write order.
	Files []string

	// SitemapURL is the public URL of the root sitemap document.
	SitemapURL string

	// Fingerprint summarizes the discovered content; pass it back through
	// RunOptions to skip unchanged rebuilds.
	Fingerprint string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// RunOptions modify a single Run.
type RunOptions struct {
	// SkipIfFingerprint skips the write when the discovered content has this
	// fingerprint.
	SkipIfFingerprint string
}
