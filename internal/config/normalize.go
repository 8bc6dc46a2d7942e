package config

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated fields and the site URL host prior
// to default application. It mutates c in place.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeLogging(&c.Logging, res)
	normalizeSiteURL(c, res)
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.Notify.Subject = strings.TrimSpace(c.Notify.Subject)
	normalizeNotifyRetry(&c.Notify, res)
	return res, nil
}

func normalizeNotifyRetry(n *NotifyConfig, res *NormalizationResult) {
	if rb := NormalizeRetryBackoff(string(n.RetryBackoff)); rb != "" {
		if n.RetryBackoff != rb {
			res.Warnings = append(res.Warnings, warnChanged("notify.retry_backoff", n.RetryBackoff, rb))
			n.RetryBackoff = rb
		}
	} else if strings.TrimSpace(string(n.RetryBackoff)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("notify.retry_backoff", string(n.RetryBackoff), string(RetryBackoffLinear)))
		n.RetryBackoff = RetryBackoffLinear
	}
	n.RetryInitialDelay = strings.TrimSpace(n.RetryInitialDelay)
	n.RetryMaxDelay = strings.TrimSpace(n.RetryMaxDelay)
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if raw := string(l.Level); raw != "" {
		if lvl, ok := logLevelNormalizer.Lookup(raw); ok {
			if l.Level != lvl {
				res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
				l.Level = lvl
			}
		} else {
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(LogLevelInfo)))
			l.Level = LogLevelInfo
		}
	}
	if raw := string(l.Format); raw != "" {
		if f, ok := logFormatNormalizer.Lookup(raw); ok {
			if l.Format != f {
				res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
				l.Format = f
			}
		} else {
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", raw, string(LogFormatText)))
			l.Format = LogFormatText
		}
	}
}

// normalizeSiteURL converts an internationalized host to its ASCII form so
// sitemap locations are valid URIs.
func normalizeSiteURL(c *Config, res *NormalizationResult) {
	c.SiteURL = strings.TrimSpace(c.SiteURL)
	if c.SiteURL == "" {
		return
	}
	u, err := url.Parse(c.SiteURL)
	if err != nil || u.Host == "" || isASCII(u.Host) {
		return
	}
	host, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("site_url host '%s' is not a valid internationalized name: %v", u.Hostname(), err))
		return
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	from := c.SiteURL
	u.Host = host
	c.SiteURL = u.String()
	res.Warnings = append(res.Warnings, warnChanged("site_url", from, c.SiteURL))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
