package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemapgen/cmd/sitemapgen/commands"
	ferrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sitemapgen"),
		kong.Description("Generate XML and text sitemaps from a Markdown content tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	if err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
