package cmd

import (
	"context"
	"flag"

	"github.com/etnz/passbook/renderer"
	"github.com/google/subcommands"
)

type balanceCmd struct {
	app *App
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the balance of the working ledger" }
func (*balanceCmd) Usage() string {
	return `pbk balance

  Displays the current balance and the number of transactions.
`
}

func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.app.OpenWorkingLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(renderer.BalanceMarkdown(ledger.Balance(), ledger.Len(), c.app.Config.Currency))
	return subcommands.ExitSuccess
}
