package passbook

import (
	"context"
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"sync"

	"github.com/etnz/passbook/date"
	"github.com/sirupsen/logrus"
)

// Ledger holds the balance and the ordered history of a single account.
//
// The history is kept in insertion order and the balance is always the sum
// of the history amounts. All methods are safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	balance int64
	history []Transaction

	storage Storage
	log     logrus.FieldLogger
	today   func() date.Date
}

// Option configures a Ledger created by NewLedger.
type Option func(*Ledger)

// WithStorage sets the storage used by Save and Load.
func WithStorage(s Storage) Option {
	return func(l *Ledger) { l.storage = s }
}

// WithLogger sets the logger receiving the ledger notifications.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithClock sets the function giving the date of new transactions.
func WithClock(today func() date.Date) Option {
	return func(l *Ledger) { l.today = today }
}

// NewLedger creates an empty ledger with a zero balance.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		history: make([]Transaction, 0),
		today:   date.Today,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		l.log = discard
	}
	return l
}

// Deposit adds amount to the balance and records it at today's date.
//
// A non-positive amount is ignored: nothing changes and ok is false. A
// deposit that would overflow the balance is refused the same way.
func (l *Ledger) Deposit(amount int64) (tx Transaction, ok bool) {
	if amount <= 0 {
		return Transaction{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > math.MaxInt64-l.balance {
		l.log.WithFields(logrus.Fields{
			"amount":  amount,
			"balance": l.balance,
		}).WithError(ErrOverflow).Warn("deposit rejected")
		return Transaction{}, false
	}

	tx = NewTransaction(amount, l.today())
	l.balance += amount
	l.history = append(l.history, tx)
	l.log.WithFields(logrus.Fields{
		"date":    tx.Date().String(),
		"amount":  amount,
		"balance": l.balance,
	}).Info("deposited")
	return tx, true
}

// Withdraw removes amount from the balance and records it at today's date.
//
// It fails with ErrInvalidAmount for a non-positive amount and with
// ErrInsufficientFunds when amount exceeds the balance. On failure the
// ledger is left unchanged.
func (l *Ledger) Withdraw(amount int64) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	switch {
	case amount <= 0:
		err = fmt.Errorf("%w: cannot withdraw %d", ErrInvalidAmount, amount)
	case amount > l.balance:
		err = fmt.Errorf("%w: cannot withdraw %d from a balance of %d", ErrInsufficientFunds, amount, l.balance)
	}
	if err != nil {
		l.log.WithFields(logrus.Fields{
			"amount":  amount,
			"balance": l.balance,
		}).WithError(err).Warn("withdrawal rejected")
		return Transaction{}, err
	}

	tx := NewTransaction(-amount, l.today())
	l.balance -= amount
	l.history = append(l.history, tx)
	l.log.WithFields(logrus.Fields{
		"date":    tx.Date().String(),
		"amount":  amount,
		"balance": l.balance,
	}).Info("withdrawn")
	return tx, nil
}

// Balance returns the current balance.
func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Len returns the number of transactions in the history.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

// Query returns the transactions matching p, in insertion order.
// The returned slice is owned by the caller.
func (l *Ledger) Query(p Predicate) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	matches := make([]Transaction, 0)
	for _, tx := range l.history {
		if p.Match(tx) {
			matches = append(matches, tx)
		}
	}
	return matches
}

// Transactions returns an iterator over the transactions matching p.
//
// The index is the position in the whole history. Iteration runs over a
// snapshot taken when it starts, so the ledger may be modified meanwhile.
func (l *Ledger) Transactions(p Predicate) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		l.mu.Lock()
		snapshot := slices.Clone(l.history)
		l.mu.Unlock()

		for i, tx := range snapshot {
			if !p.Match(tx) {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Delete removes every transaction matching p and returns how many were
// removed. The balance is then recomputed from the remaining history.
//
// When the remaining history would overflow the balance nothing is removed.
func (l *Ledger) Delete(p Predicate) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := slices.DeleteFunc(slices.Clone(l.history), p.Match)
	removed := len(l.history) - len(remaining)
	if removed == 0 {
		return 0
	}
	balance, _, err := fold(remaining)
	if err != nil {
		l.log.WithField("removed", removed).WithError(err).Warn("delete rejected")
		return 0
	}

	previous := l.balance
	l.history, l.balance = remaining, balance
	l.log.WithFields(logrus.Fields{
		"removed":  removed,
		"previous": previous,
		"balance":  l.balance,
	}).Info("deleted")
	return removed
}

// Save writes a copy of the history to destination through the ledger
// storage. Any failure is returned as a *StorageError and leaves the ledger
// unchanged.
func (l *Ledger) Save(ctx context.Context, destination string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := logrus.Fields{"destination": destination, "count": len(l.history)}
	if err := l.save(ctx, destination); err != nil {
		serr := &StorageError{Op: "save", Destination: destination, Err: err}
		l.log.WithFields(fields).WithError(err).Warn("save failed")
		return serr
	}
	l.log.WithFields(fields).Info("saved")
	return nil
}

func (l *Ledger) save(ctx context.Context, destination string) error {
	if l.storage == nil {
		return ErrNoStorage
	}
	if err := ValidateDestination(destination); err != nil {
		return err
	}
	return l.storage.Save(ctx, destination, slices.Clone(l.history))
}

// Load replaces the history with the transactions stored at destination and
// recomputes the balance.
//
// When loading fails the ledger is reset: the history becomes empty and the
// balance zero. The failure is returned as a *StorageError.
func (l *Ledger) Load(ctx context.Context, destination string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var balance, low int64
	txs, err := l.load(ctx, destination)
	if err == nil {
		balance, low, err = fold(txs)
	}
	if err != nil {
		l.history = make([]Transaction, 0)
		l.balance = 0
		l.log.WithField("destination", destination).WithError(err).Warn("load failed, ledger reset")
		return &StorageError{Op: "load", Destination: destination, Err: err}
	}

	l.history, l.balance = txs, balance
	entry := l.log.WithFields(logrus.Fields{
		"destination": destination,
		"count":       len(txs),
		"balance":     l.balance,
	})
	if low < 0 {
		entry.WithField("lowest", low).Warn("loaded history went below zero")
	}
	entry.Info("loaded")
	return nil
}

func (l *Ledger) load(ctx context.Context, destination string) ([]Transaction, error) {
	if l.storage == nil {
		return nil, ErrNoStorage
	}
	if err := ValidateDestination(destination); err != nil {
		return nil, err
	}
	txs, err := l.storage.Load(ctx, destination)
	if err != nil {
		return nil, err
	}
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
	}
	// The storage may hand us a slice it keeps a reference to.
	return slices.Clone(txs), nil
}

// fold returns the sum of the amounts and the lowest running balance reached
// along txs. It fails with ErrOverflow as soon as the running balance leaves
// the int64 range.
func fold(txs []Transaction) (balance, lowest int64, err error) {
	for i, tx := range txs {
		a := tx.Amount()
		if (a > 0 && balance > math.MaxInt64-a) || (a < 0 && balance < math.MinInt64-a) {
			return 0, 0, fmt.Errorf("%w: at transaction #%d (%v)", ErrOverflow, i+1, tx)
		}
		balance += a
		lowest = min(lowest, balance)
	}
	return balance, lowest, nil
}
