package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/passbook/cmd"
	"github.com/etnz/passbook/config"
	"github.com/google/subcommands"
)

func main() {
	// handles COMP_LINE when invoked by the shell completion.
	cmd.Completion().Complete("pbk")

	cfg := config.Load()
	flag.StringVar(&cfg.Store, "store", cfg.Store, "Comma separated storage kinds: memory, jsonl, xml, sqlite, postgres.")
	flag.StringVar(&cfg.Ledger, "ledger", cfg.Ledger, "Name of the working ledger.")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	app := cmd.NewApp(cfg, cfg.NewLogger(os.Stderr))
	cmd.Register(commander, app)

	status := commander.Execute(context.Background())
	if err := app.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(int(status))
}
