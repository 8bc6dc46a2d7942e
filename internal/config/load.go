package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// Defaults applied to keys left empty in the file.
const (
	DefaultTimezone         = "UTC"
	DefaultContentDirectory = "content"
	DefaultPagesDirectory   = "pages"
	DefaultOutputDirectory  = "output"
	DefaultNotifySubject    = "sitemap.published"
)

// Load reads, expands, normalizes and validates the configuration at path.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	// #nosec G304 -- path is chosen by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		category := derrors.CategoryConfig
		msg := "failed to read config file"
		if errors.Is(err, fs.ErrNotExist) {
			category = derrors.CategoryNotFound
			msg = "configuration file not found"
		}
		return nil, derrors.WrapError(err, category, msg).
			WithContext("path", path).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse config file").
			WithContext("path", path).
			Build()
	}

	res, err := NormalizeConfig(&cfg)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to normalize config").Build()
	}
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", logfields.Path(path), slog.String("warning", w))
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(c *Config) {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Content.Directory == "" {
		c.Content.Directory = DefaultContentDirectory
	}
	if c.Content.PagesDir == "" {
		c.Content.PagesDir = DefaultPagesDirectory
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDirectory
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
	if c.Notify.RetryBackoff == "" {
		c.Notify.RetryBackoff = RetryBackoffLinear
	}
}

// validate checks host-level settings only. A missing site_url is left to the
// sitemap generator, which reports it as fatal.
func validate(c *Config) error {
	if c.SiteURL != "" {
		u, err := url.Parse(c.SiteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return derrors.ConfigError("site_url must be an absolute URL").
				WithContext("site_url", c.SiteURL).
				Build()
		}
	}
	if c.Notify.NATSURL != "" {
		u, err := url.Parse(c.Notify.NATSURL)
		if err != nil || !validNATSScheme(u.Scheme) {
			return derrors.ConfigError("notify.nats_url must use nats, tls, ws or wss").
				WithContext("nats_url", c.Notify.NATSURL).
				Build()
		}
	}
	if c.Notify.MaxRetries < 0 {
		return derrors.ConfigError("notify.max_retries cannot be negative").
			WithContext("max_retries", c.Notify.MaxRetries).
			Build()
	}
	for field, raw := range map[string]string{
		"notify.retry_initial_delay": c.Notify.RetryInitialDelay,
		"notify.retry_max_delay":     c.Notify.RetryMaxDelay,
	} {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			return derrors.ConfigError(field+" must be a positive duration").
				WithContext(field, raw).
				Build()
		}
	}
	return nil
}

func validNATSScheme(s string) bool {
	switch s {
	case "nats", "tls", "ws", "wss":
		return true
	}
	return false
}
