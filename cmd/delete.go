package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/passbook"
	"github.com/etnz/passbook/date"
	"github.com/google/subcommands"
)

type deleteCmd struct {
	app *App
	day string
	all bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete transactions from the working ledger" }
func (*deleteCmd) Usage() string {
	return `pbk delete (-day <day> | -all)

  Deletes the transactions of a day, or all of them, and saves the working
  ledger. The balance is recomputed from the remaining transactions.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "day", "", "Delete the transactions of this day (YYYY-MM-DD). "+relativeHelp)
	f.BoolVar(&c.all, "all", false, "Delete all transactions.")
}

func (c *deleteCmd) predicate() (passbook.Predicate, error) {
	switch {
	case c.all && c.day != "":
		return nil, errors.New("-day and -all cannot be used together")
	case c.all:
		return passbook.AcceptAll, nil
	case c.day != "":
		day, err := date.Parse(c.day)
		if err != nil {
			return nil, err
		}
		return passbook.OnDay(day), nil
	default:
		return nil, errors.New("one of -day or -all is required")
	}
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := c.predicate()
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
	n := ledger.Delete(p)
	if n > 0 {
		if err := c.app.SaveWorkingLedger(ctx, ledger); err != nil {
			c.app.Errorf("%v", err)
			return subcommands.ExitFailure
		}
	}

	c.app.printMarkdown(fmt.Sprintf("Deleted %d transaction(s).\n", n))
	return subcommands.ExitSuccess
}
