package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/passbook"
	"github.com/google/subcommands"
)

// the import/export format is the JSONL encoding of the transactions, it is
// human readable and independent of the configured store.

type exportCmd struct {
	app    *App
	output string
	filter txFilter
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions of the working ledger to a JSONL file" }
func (*exportCmd) Usage() string {
	return `pbk export [-o <file>] [-day <day>] [-period <period>] [-month <month> | -year <year> | -from <day> [-to <day>]] [-type deposit|withdraw]

  Writes the selected transactions in the JSONL import/export format, to the
  standard output or to a file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
	c.filter.SetFlags(f)
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, _, err := c.filter.predicate(c.app.Today())
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
	txs := ledger.Query(p)

	w := c.app.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			c.app.Errorf("%v", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := passbook.EncodeTransactions(w, txs); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type importCmd struct {
	app     *App
	replace bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a JSONL file into the working ledger" }
func (*importCmd) Usage() string {
	return `pbk import [-replace] <file>

  Appends the transactions of a JSONL file to the working ledger, or replaces
  them with -replace. The balance is recomputed from the resulting history.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.replace, "replace", false, "Replace the working ledger instead of appending.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		c.app.Errorf("exactly one file is required")
		usage(c.app.Stderr, c, f)
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer file.Close()
	imported, err := passbook.DecodeTransactions(file)
	if err != nil {
		c.app.Errorf("%s: %v", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	var txs []passbook.Transaction
	if !c.replace {
		current, err := c.app.OpenWorkingLedger(ctx)
		if err != nil {
			c.app.Errorf("%v", err)
			return subcommands.ExitFailure
		}
		txs = current.Query(passbook.AcceptAll)
	}
	txs = append(txs, imported...)

	// go through the store so the ledger rebuilds its balance from the history.
	s, err := c.app.Storage(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	if err := s.Save(ctx, c.app.Config.Ledger, txs); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	ledger, err := c.app.OpenWorkingLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.app.Stdout, "Imported %d transaction(s), %d in the working ledger.\n", len(imported), ledger.Len())
	return subcommands.ExitSuccess
}
