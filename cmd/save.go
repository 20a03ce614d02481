package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type saveCmd struct {
	app *App
	to  string
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "save the working ledger under a name" }
func (*saveCmd) Usage() string {
	return `pbk save -to <name>

  Saves a copy of the working ledger transactions under another name in the
  configured store.
`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "Destination name.")
}

func (c *saveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.to == "" {
		c.app.Errorf("-to is required")
		usage(c.app.Stderr, c, f)
		return subcommands.ExitUsageError
	}

	ledger, err := c.app.OpenWorkingLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Save(ctx, c.to); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(fmt.Sprintf("Saved %d transaction(s) to %q.\n", ledger.Len(), c.to))
	return subcommands.ExitSuccess
}

type loadCmd struct {
	app  *App
	from string
}

func (*loadCmd) Name() string     { return "load" }
func (*loadCmd) Synopsis() string { return "replace the working ledger with a saved one" }
func (*loadCmd) Usage() string {
	return `pbk load -from <name>

  Replaces the working ledger with the transactions saved under name. If the
  load fails the working ledger is left untouched.
`
}

func (c *loadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Name to load from.")
}

func (c *loadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" {
		c.app.Errorf("-from is required")
		usage(c.app.Stderr, c, f)
		return subcommands.ExitUsageError
	}

	ledger, err := c.app.NewLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Load(ctx, c.from); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	if err := c.app.SaveWorkingLedger(ctx, ledger); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(fmt.Sprintf("Loaded %d transaction(s) from %q.\n", ledger.Len(), c.from))
	return subcommands.ExitSuccess
}
