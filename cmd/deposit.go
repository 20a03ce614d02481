package cmd

import (
	"context"
	"flag"

	"github.com/etnz/passbook"
	"github.com/etnz/passbook/renderer"
	"github.com/google/subcommands"
)

type depositCmd struct {
	app    *App
	amount int64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit money on the working ledger" }
func (*depositCmd) Usage() string {
	return `pbk deposit -a <amount>

  Records a deposit at today's date and saves the working ledger.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.amount, "a", 0, "Amount to deposit, strictly positive.")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		c.app.Errorf("the amount must be strictly positive, got %d", c.amount)
		usage(c.app.Stderr, c, f)
		return subcommands.ExitUsageError
	}

	ledger, err := c.app.OpenWorkingLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	tx, ok := ledger.Deposit(c.amount)
	if !ok {
		c.app.Errorf("%v: cannot deposit %d on a balance of %d", passbook.ErrOverflow, c.amount, ledger.Balance())
		return subcommands.ExitFailure
	}
	if err := c.app.SaveWorkingLedger(ctx, ledger); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}

	c.app.printMarkdown(renderer.OperationMarkdown(tx, ledger.Balance(), c.app.Config.Currency))
	return subcommands.ExitSuccess
}

type withdrawCmd struct {
	app    *App
	amount int64
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw money from the working ledger" }
func (*withdrawCmd) Usage() string {
	return `pbk withdraw -a <amount>

  Records a withdrawal at today's date and saves the working ledger.
  The withdrawal is refused if the amount exceeds the balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.amount, "a", 0, "Amount to withdraw, strictly positive.")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		c.app.Errorf("the amount must be strictly positive, got %d", c.amount)
		usage(c.app.Stderr, c, f)
		return subcommands.ExitUsageError
	}

	ledger, err := c.app.OpenWorkingLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	tx, err := ledger.Withdraw(c.amount)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	if err := c.app.SaveWorkingLedger(ctx, ledger); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}

	c.app.printMarkdown(renderer.OperationMarkdown(tx, ledger.Balance(), c.app.Config.Currency))
	return subcommands.ExitSuccess
}
