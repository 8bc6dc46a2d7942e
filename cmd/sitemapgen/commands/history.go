package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/sitemapgen/internal/config"
	"git.home.luguber.info/inful/sitemapgen/internal/eventstore"
	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of builds to show" default:"10"`
	JSON  bool `name:"json" help:"Print builds as JSON"`
}

func (h *HistoryCmd) Run(glob *Global, root *CLI) error {
	cfg, err := root.loadConfig(glob)
	if err != nil {
		return err
	}
	return RunHistory(context.Background(), glob.out(), cfg, h.Limit, h.JSON)
}

// RunHistory prints the most recent finished builds, newest first.
func RunHistory(ctx context.Context, out io.Writer, cfg *config.Config, limit int, asJSON bool) error {
	if !cfg.HistoryEnabled() {
		return ferrors.ConfigError("build history is not enabled (set history.path)").Build()
	}

	store, err := eventstore.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	projection := eventstore.NewBuildHistoryProjection(store, limit)
	if err := projection.Rebuild(ctx); err != nil {
		return err
	}
	builds := projection.GetHistory()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(builds); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode build history").Build()
		}
		return nil
	}

	if len(builds) == 0 {
		_, _ = fmt.Fprintln(out, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTATUS\tSTARTED\tDURATION\tENTRIES\tFILES\tERROR")
	for _, b := range builds {
		errText := ""
		if b.ErrorMessage != "" {
			errText = b.ErrorStage + ": " + b.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			b.BuildID, b.Status, b.StartedAt.UTC().Format(time.RFC3339),
			b.Duration.Round(time.Millisecond), b.Entries, b.Files, errText)
	}
	return tw.Flush()
}
