package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/passbook"
	"github.com/google/subcommands"
)

type formatLedgerCmd struct {
	app   *App
	check bool
}

func (*formatLedgerCmd) Name() string     { return "fmt" }
func (*formatLedgerCmd) Synopsis() string { return "formats JSONL transaction files into a canonical form" }
func (*formatLedgerCmd) Usage() string {
	return `pbk fmt [-check] <file>...

  Rewrites JSONL transaction files with one canonical object per line, keeping
  the transaction order. With -check, files are not modified and the command
  fails if one of them is not formatted.
`
}

func (c *formatLedgerCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Only report files that are not formatted.")
}

func (c *formatLedgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		c.app.Errorf("at least one file is required")
		usage(c.app.Stderr, c, f)
		return subcommands.ExitUsageError
	}

	status := subcommands.ExitSuccess
	for _, file := range f.Args() {
		changed, err := c.format(file)
		switch {
		case err != nil:
			c.app.Errorf("%s: %v", file, err)
			status = subcommands.ExitFailure
		case changed && c.check:
			fmt.Fprintf(c.app.Stdout, "%s is not formatted\n", file)
			status = subcommands.ExitFailure
		case changed:
			fmt.Fprintf(c.app.Stdout, "%s has been formatted\n", file)
		}
	}
	return status
}

// format reformats file and reports whether its content changed.
func (c *formatLedgerCmd) format(file string) (bool, error) {
	original, err := os.ReadFile(file)
	if err != nil {
		return false, err
	}
	txs, err := passbook.DecodeTransactions(bytes.NewReader(original))
	if err != nil {
		return false, err
	}
	var buf bytes.Buffer
	if err := passbook.EncodeTransactions(&buf, txs); err != nil {
		return false, err
	}
	if bytes.Equal(original, buf.Bytes()) {
		return false, nil
	}
	if c.check {
		return true, nil
	}
	return true, os.WriteFile(file, buf.Bytes(), 0o644)
}
