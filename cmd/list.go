package cmd

import (
	"context"
	"flag"

	"github.com/etnz/passbook/renderer"
	"github.com/etnz/passbook/storage"
	"github.com/google/subcommands"
)

type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the saved ledgers of the configured store" }
func (*listCmd) Usage() string {
	return `pbk list

  Lists the destination names that can be loaded, the working ledger included.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.Storage(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	l, ok := s.(storage.Lister)
	if !ok {
		c.app.Errorf("the configured store cannot list its ledgers")
		return subcommands.ExitFailure
	}
	names, err := l.Destinations(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(renderer.DestinationsMarkdown(names, c.app.Config.Ledger))
	return subcommands.ExitSuccess
}
