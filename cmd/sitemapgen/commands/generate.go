package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/sitemapgen/internal/build"
	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
}

func (g *GenerateCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.loadConfig(glob)
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.Output.Directory = g.Output
	}

	ctx, cancel := signalContext()
	defer cancel()
	return RunGenerate(ctx, glob.out(), cfg, glob.Logger)
}

// RunGenerate performs one build and prints a summary line.
func RunGenerate(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	svc := build.FromConfig(cfg, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close build outputs", logfields.Error(err))
		}
	}()

	result, err := svc.Run(ctx, cfg, build.RunOptions{})
	if err != nil {
		return err
	}
	if result.Entries == 0 {
		_, _ = fmt.Fprintln(out, "No sitemap entries; nothing written")
		return nil
	}
	_, _ = fmt.Fprintf(out, "Wrote %d entries to %d file(s): %s\n", result.Entries, len(result.Files), result.SitemapURL)
	return nil
}
