package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		SiteURL:  "https://example.com/",
		Timezone: DefaultTimezone,
		Content: ContentConfig{
			Directory: DefaultContentDirectory,
			PagesDir:  DefaultPagesDirectory,
		},
		Output:  OutputConfig{Directory: DefaultOutputDirectory},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Sitemap: map[string]any{
			"format":   "xml",
			"compress": false,
			"priorities": map[string]any{
				"articles": 0.5,
				"indexes":  0.5,
				"pages":    0.5,
			},
			"changefreqs": map[string]any{
				"articles": "monthly",
				"indexes":  "daily",
				"pages":    "monthly",
			},
			"exclude": []any{`^pages/drafts/`},
		},
	}
}

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal example config").Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).
				Build()
		}
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
