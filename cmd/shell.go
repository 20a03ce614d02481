package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/passbook"
	"github.com/etnz/passbook/date"
	"github.com/etnz/passbook/renderer"
	"github.com/google/subcommands"
)

type shellCmd struct {
	app *App
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "start the interactive menu" }
func (*shellCmd) Usage() string {
	return `pbk shell

  Starts an interactive menu on an empty ledger. Nothing is persisted unless
  the ledger is explicitly saved from the menu.
`
}

func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.app.NewLedger(ctx)
	if err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	s := &shell{
		app:    c.app,
		ledger: ledger,
		in:     newPrompter(c.app.Stdin, c.app.Stdout),
	}
	if err := s.run(ctx); err != nil {
		c.app.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// errEndOfInput is returned by the prompter when the input is exhausted.
var errEndOfInput = errors.New("end of input")

// prompter reads answers line by line, asking again until an answer parses.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask prints the question and returns the trimmed answer.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// askParsed asks question until parse accepts the answer.
func askParsed[T any](p *prompter, question string, parse func(string) (T, error)) (T, error) {
	for {
		answer, err := p.ask(question)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "Invalid input: %v\n", err)
	}
}

func parseAmount(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return v, nil
}

func parseName(s string) (string, error) {
	return s, passbook.ValidateDestination(s)
}

// menu entries, in display order.
var menu = []struct{ key, label string }{
	{"1", "Check balance"},
	{"2", "Deposit"},
	{"3", "Withdraw"},
	{"4", "Show all transactions"},
	{"5", "Show transactions of a day"},
	{"6", "Show transactions of a month"},
	{"7", "Show transactions of a year"},
	{"8", "Save"},
	{"9", "Load"},
	{"A", "Delete transactions of a day"},
	{"B", "Delete all transactions"},
	{"S", "Summary"},
	{"0", "Exit"},
}

// shell is the interactive menu over a ledger kept in memory.
type shell struct {
	app    *App
	ledger *passbook.Ledger
	in     *prompter
}

// run loops over the menu until the exit entry or the end of the input.
func (s *shell) run(ctx context.Context) error {
	for {
		s.printMenu()
		choice, err := s.in.ask("> ")
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "0" {
			fmt.Fprintln(s.app.Stdout, "Bye.")
			return nil
		}

		err = s.dispatch(ctx, strings.ToUpper(choice))
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *shell) printMenu() {
	fmt.Fprintln(s.app.Stdout)
	for _, e := range menu {
		fmt.Fprintf(s.app.Stdout, "%s) %s\n", e.key, e.label)
	}
}

// dispatch runs one menu entry. Ledger failures are reported and the loop
// goes on; only input errors are returned.
func (s *shell) dispatch(ctx context.Context, choice string) error {
	cur := s.app.Config.Currency
	switch choice {
	case "1":
		s.app.printMarkdown(renderer.BalanceMarkdown(s.ledger.Balance(), s.ledger.Len(), cur))

	case "2":
		amount, err := askParsed(s.in, "Amount to deposit: ", parseAmount)
		if err != nil {
			return err
		}
		tx, ok := s.ledger.Deposit(amount)
		switch {
		case !ok && amount <= 0:
			fmt.Fprintln(s.app.Stdout, "Nothing deposited: the amount must be strictly positive.")
			return nil
		case !ok:
			fmt.Fprintln(s.app.Stdout, "Nothing deposited: the balance would overflow.")
			return nil
		}
		s.app.printMarkdown(renderer.OperationMarkdown(tx, s.ledger.Balance(), cur))

	case "3":
		amount, err := askParsed(s.in, "Amount to withdraw: ", parseAmount)
		if err != nil {
			return err
		}
		tx, err := s.ledger.Withdraw(amount)
		if err != nil {
			s.report(err)
			return nil
		}
		s.app.printMarkdown(renderer.OperationMarkdown(tx, s.ledger.Balance(), cur))

	case "4":
		s.app.printMarkdown(renderer.TransactionsMarkdown("Transactions", s.ledger.Transactions(passbook.AcceptAll), cur))

	case "5":
		day, err := askParsed(s.in, "Day (YYYY-MM-DD): ", date.Parse)
		if err != nil {
			return err
		}
		s.printQuery(date.NewRange(day, date.Daily), passbook.OnDay(day))

	case "6":
		m, err := askParsed(s.in, "Month (YYYY-MM): ", date.ParseMonth)
		if err != nil {
			return err
		}
		s.printQuery(date.Month(m.Year(), m.Month()), passbook.InMonth(m.Year(), m.Month()))

	case "7":
		y, err := askParsed(s.in, "Year: ", date.ParseYear)
		if err != nil {
			return err
		}
		s.printQuery(date.Year(y), passbook.InYear(y))

	case "8":
		name, err := askParsed(s.in, "Save as: ", parseName)
		if err != nil {
			return err
		}
		if err := s.ledger.Save(ctx, name); err != nil {
			s.report(err)
			return nil
		}
		fmt.Fprintf(s.app.Stdout, "Saved %d transaction(s) to %q.\n", s.ledger.Len(), name)

	case "9":
		name, err := askParsed(s.in, "Load from: ", parseName)
		if err != nil {
			return err
		}
		if err := s.ledger.Load(ctx, name); err != nil {
			s.report(err)
			fmt.Fprintln(s.app.Stdout, "The ledger is now empty.")
			return nil
		}
		fmt.Fprintf(s.app.Stdout, "Loaded %d transaction(s) from %q.\n", s.ledger.Len(), name)

	case "A":
		day, err := askParsed(s.in, "Day (YYYY-MM-DD): ", date.Parse)
		if err != nil {
			return err
		}
		n := s.ledger.Delete(passbook.OnDay(day))
		fmt.Fprintf(s.app.Stdout, "Deleted %d transaction(s).\n", n)

	case "B":
		n := s.ledger.Delete(passbook.AcceptAll)
		fmt.Fprintf(s.app.Stdout, "Deleted %d transaction(s).\n", n)

	case "S":
		s.app.printMarkdown(renderer.SummaryMarkdown("Summary", s.ledger.Summary(passbook.AcceptAll), cur))

	default:
		fmt.Fprintf(s.app.Stdout, "Unknown choice %q.\n", choice)
	}
	return nil
}

// printQuery prints the transactions matching p, titled after r.
func (s *shell) printQuery(r date.Range, p passbook.Predicate) {
	txs := s.ledger.Transactions(p)
	s.app.printMarkdown(renderer.TransactionsMarkdown(title("Transactions", describe(r)), txs, s.app.Config.Currency))
}

// report prints a ledger failure without stopping the menu.
func (s *shell) report(err error) {
	fmt.Fprintf(s.app.Stdout, "Error: %v\n", err)
}
