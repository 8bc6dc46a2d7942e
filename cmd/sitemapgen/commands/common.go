package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemapgen/internal/config"
)

// Global is the state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitemapgen.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Write the sitemap once"`
	Watch    WatchCmd    `cmd:"" help:"Rewrite the sitemap whenever content or configuration changes"`
	Schedule ScheduleCmd `cmd:"" help:"Rewrite the sitemap on a fixed schedule"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	History  HistoryCmd  `cmd:"" help:"List recent builds from the history store"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.Verbose, config.LoggingConfig{}))
	return nil
}

// loadConfig loads the configuration file and switches logging to the
// configured level and format.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	logger := newLogger(os.Stderr, c.Verbose, cfg.Logging)
	slog.SetDefault(logger)
	g.Logger = logger
	return cfg, nil
}

// newLogger builds the process logger. --verbose always wins over the
// configured level.
func newLogger(w io.Writer, verbose bool, lc config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	if lc.Level != "" {
		level = lc.Level.SlogLevel()
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
