package cmd

import (
	"context"
	"flag"

	"github.com/etnz/passbook/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	app    *App
	filter txFilter
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the working ledger" }
func (*txCmd) Usage() string {
	return `pbk tx [-day <day>] [-period <period>] [-month <month> | -year <year> | -from <day> [-to <day>]] [-type deposit|withdraw]

  Lists transactions in insertion order, all of them or only those of a day,
  a period, a month, a year or a custom range. The # column is the position
  in the whole history.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) { c.filter.SetFlags(f) }

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, description, err := c.filter.predicate(c.app.Today())
	if err != nil {
		c.app.Errorf("%v", err)
		usage(c.app.Stderr, c, f)
		return subcommands.ExitUsageError
	}

	ledger, err := c.app.OpenWorkingLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}

	c.app.printMarkdown(renderer.TransactionsMarkdown(title("Transactions", description), ledger.Transactions(p), c.app.Config.Currency))
	return subcommands.ExitSuccess
}
