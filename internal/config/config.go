package config

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "sitemapgen.yaml"

// Config is the sitemapgen configuration file.
type Config struct {
	SiteURL  string         `yaml:"site_url"`
	Timezone string         `yaml:"timezone,omitempty"`
	Content  ContentConfig  `yaml:"content"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
	History  HistoryConfig  `yaml:"history,omitempty"`
	Notify   NotifyConfig   `yaml:"notify,omitempty"`

	// Sitemap is handed to the sitemap settings parser undecoded.
	Sitemap any `yaml:"sitemap,omitempty"`
}

// ContentConfig locates the Markdown sources.
type ContentConfig struct {
	Directory  string `yaml:"directory"`
	PagesDir   string `yaml:"pages_dir,omitempty"`
	GitLastmod bool   `yaml:"git_lastmod,omitempty"`
}

// OutputConfig locates the generated site.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// HistoryConfig enables the build history store.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// NotifyConfig enables post-build notifications. Failed publishes are retried
// max_retries times with the given backoff.
type NotifyConfig struct {
	NATSURL           string           `yaml:"nats_url,omitempty"`
	Subject           string           `yaml:"subject,omitempty"`
	MaxRetries        int              `yaml:"max_retries,omitempty"`
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff,omitempty"`
	RetryInitialDelay string           `yaml:"retry_initial_delay,omitempty"`
	RetryMaxDelay     string           `yaml:"retry_max_delay,omitempty"`
}

// HistoryEnabled reports whether build events should be recorded.
func (c *Config) HistoryEnabled() bool { return c.History.Path != "" }

// NotifyEnabled reports whether a publisher should be created.
func (c *Config) NotifyEnabled() bool { return c.Notify.NATSURL != "" }
