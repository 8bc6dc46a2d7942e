package sitemap

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitemapgen/internal/metrics"
)

// ShouldExclude reports whether c stays out of the sitemap: it is private,
// its status is "hidden", or its percent-encoded URL matches any pattern.
// Patterns are unanchored; use "^" to anchor at the start of the URL.
func ShouldExclude(c Content, patterns []*regexp.Regexp) bool {
	_, excluded := exclusionReason(c, patterns)
	return excluded
}

func exclusionReason(c Content, patterns []*regexp.Regexp) (metrics.ExclusionReason, bool) {
	md := c.Metadata()
	if md.Truthy("private") {
		return metrics.ExcludedPrivate, true
	}
	if status, ok := md.String("status"); ok && strings.EqualFold(strings.TrimSpace(status), "hidden") {
		return metrics.ExcludedHidden, true
	}
	u := escapeURL(c.URL())
	for _, re := range patterns {
		if re.MatchString(u) {
			return metrics.ExcludedPattern, true
		}
	}
	return "", false
}
