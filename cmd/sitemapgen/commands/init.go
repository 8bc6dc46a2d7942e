package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/content"
	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
)

// SampleArticle is the article written by 'init --sample', relative to the
// content directory.
const SampleArticle = "posts/hello-world.md"

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool `help:"Overwrite existing configuration file"`
	Sample bool `help:"Also write an example article into the content directory"`
}

func (i *InitCmd) Run(glob *Global, root *CLI) error {
	return RunInit(glob.out(), root.Config, i.Force, i.Sample)
}

// RunInit writes the example configuration and, optionally, a sample article
// under the example content directory next to the configuration file.
func RunInit(out io.Writer, configPath string, force, sample bool) error {
	_, _ = fmt.Fprintln(out, "Initializing sitemapgen project")
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}

	if sample {
		path := filepath.Join(filepath.Dir(configPath), config.Example().Content.Directory, filepath.FromSlash(SampleArticle))
		if err := writeSample(path, force); err != nil {
			_, _ = fmt.Fprintln(out, "Initialization failed")
			return err
		}
		_, _ = fmt.Fprintf(out, "Wrote sample article to %s\n", path)
	}

	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}

func writeSample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("sample article already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	doc, err := content.RenderDocument(map[string]any{
		"title":    "Hello World",
		"date":     "2024-01-01",
		"category": "News",
		"tags":     []any{"sitemap", "getting started"},
		"author":   "Site Admin",
	}, "# Hello World\n\nThis article shows up in the sitemap together with its tag, category and author pages.\n")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to render sample article").Build()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create content directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write sample article").
			WithContext("path", path).
			Build()
	}
	return nil
}
