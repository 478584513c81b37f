package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/solia/cmd/solia/commands"
	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
	"git.home.luguber.info/inful/solia/internal/version"
)

func main() {
	// Optional .env for SOLIA_CONFIG and SOLIA_DATA_DIR.
	_ = godotenv.Load()

	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("solia"),
		kong.Description("Local billable time tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global); err != nil {
		adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}
