// Package cmd implements the CLI application to manage a passbook.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/passbook"
	"github.com/etnz/passbook/config"
	"github.com/etnz/passbook/date"
	"github.com/etnz/passbook/storage"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&balanceCmd{app: app}, "ledger")
	c.Register(&depositCmd{app: app}, "ledger")
	c.Register(&withdrawCmd{app: app}, "ledger")
	c.Register(&deleteCmd{app: app}, "ledger")

	c.Register(&txCmd{app: app}, "reports")
	c.Register(&summaryCmd{app: app}, "reports")

	c.Register(&saveCmd{app: app}, "storage")
	c.Register(&loadCmd{app: app}, "storage")
	c.Register(&listCmd{app: app}, "storage")
	c.Register(&exportCmd{app: app}, "storage")
	c.Register(&importCmd{app: app}, "storage")
	c.Register(&formatLedgerCmd{app: app}, "storage")

	c.Register(&shellCmd{app: app}, "")
}

// App holds what the subcommands share: configuration, logger, storage and
// standard streams.
type App struct {
	Config *config.Config
	Log    logrus.FieldLogger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Today gives the date of new transactions.
	Today func() date.Date

	storage passbook.Storage
	closer  io.Closer
}

// NewApp creates an App on the process standard streams.
func NewApp(cfg *config.Config, log logrus.FieldLogger) *App {
	return &App{
		Config: cfg,
		Log:    log,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Today:  date.Today,
	}
}

// Storage opens the configured storage on first use.
func (a *App) Storage(ctx context.Context) (passbook.Storage, error) {
	if a.storage != nil {
		return a.storage, nil
	}
	s, closer, err := storage.Open(ctx, a.Config.Storage(a.Log))
	if err != nil {
		return nil, err
	}
	a.storage, a.closer = s, closer
	return s, nil
}

// Close releases the storage, if it was opened.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.storage, a.closer = nil, nil
	return err
}

// NewLedger creates an empty ledger on the configured storage.
func (a *App) NewLedger(ctx context.Context) (*passbook.Ledger, error) {
	s, err := a.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return passbook.NewLedger(
		passbook.WithStorage(s),
		passbook.WithLogger(a.Log),
		passbook.WithClock(a.Today),
	), nil
}

// OpenWorkingLedger loads the working ledger. A working ledger that was never
// saved is empty.
func (a *App) OpenWorkingLedger(ctx context.Context) (*passbook.Ledger, error) {
	ledger, err := a.NewLedger(ctx)
	if err != nil {
		return nil, err
	}
	err = ledger.Load(ctx, a.Config.Ledger)
	if errors.Is(err, passbook.ErrNotFound) {
		a.Log.WithField("ledger", a.Config.Ledger).Debug("working ledger does not exist yet, starting empty")
		return ledger, nil
	}
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// SaveWorkingLedger saves the ledger as the working ledger.
func (a *App) SaveWorkingLedger(ctx context.Context, ledger *passbook.Ledger) error {
	return ledger.Save(ctx, a.Config.Ledger)
}

// Errorf prints an error message to the error stream.
func (a *App) Errorf(format string, args ...any) {
	fmt.Fprintf(a.Stderr, "Error: "+format+"\n", args...)
}

// printMarkdown writes md to the output, rendered for the terminal unless raw
// markdown is configured.
func (a *App) printMarkdown(md string) {
	if a.Config.Output == config.OutputMarkdown {
		fmt.Fprint(a.Stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		a.Log.WithError(err).Debug("cannot create markdown renderer")
		fmt.Fprint(a.Stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		a.Log.WithError(err).Debug("cannot render markdown")
		fmt.Fprint(a.Stdout, md)
		return
	}
	fmt.Fprint(a.Stdout, out)
}

// usage prints the command usage and its flags, like subcommands does.
func usage(w io.Writer, c subcommands.Command, f *flag.FlagSet) {
	fmt.Fprint(w, c.Usage())
	f.SetOutput(w)
	f.PrintDefaults()
}
