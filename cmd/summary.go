package cmd

import (
	"context"
	"flag"

	"github.com/etnz/passbook/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	app    *App
	filter txFilter
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display deposit and withdrawal totals" }
func (*summaryCmd) Usage() string {
	return `pbk summary [-day <day>] [-period <period>] [-month <month> | -year <year> | -from <day> [-to <day>]] [-type deposit|withdraw]

  Displays counts, totals and averages of deposits and withdrawals.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.filter.SetFlags(f) }

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	c.app.printMarkdown(renderer.SummaryMarkdown(title("Summary", description), ledger.Summary(p), c.app.Config.Currency))
	return subcommands.ExitSuccess
}
