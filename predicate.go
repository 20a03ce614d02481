package passbook

import (
	"time"

	"github.com/etnz/passbook/date"
)

// Predicate is a pure test over a transaction, used to query or delete
// transactions from a Ledger.
type Predicate func(Transaction) bool

// Match evaluates the predicate. A nil predicate matches every transaction.
func (p Predicate) Match(tx Transaction) bool {
	if p == nil {
		return true
	}
	return p(tx)
}

// And returns a predicate that matches when both p and q match.
func (p Predicate) And(q Predicate) Predicate {
	return func(tx Transaction) bool { return p.Match(tx) && q.Match(tx) }
}

// AcceptAll matches every transaction.
func AcceptAll(Transaction) bool { return true }

// Deposits matches transactions that added money.
func Deposits(tx Transaction) bool { return tx.IsDeposit() }

// Withdrawals matches transactions that removed money.
func Withdrawals(tx Transaction) bool { return tx.IsWithdrawal() }

// OnDay returns a predicate that matches transactions of that exact day.
func OnDay(day date.Date) Predicate {
	return func(tx Transaction) bool { return tx.Date() == day }
}

// InMonth returns a predicate that matches transactions of a calendar month,
// whatever the day.
func InMonth(year int, month time.Month) Predicate { return Within(date.Month(year, month)) }

// InYear returns a predicate that matches transactions of a calendar year.
func InYear(year int) Predicate { return Within(date.Year(year)) }

// Within returns a predicate that matches transactions inside a date range,
// boundaries included.
func Within(r date.Range) Predicate {
	return func(tx Transaction) bool { return r.Contains(tx.Date()) }
}
