package passbook

import (
	"github.com/etnz/passbook/date"
	"github.com/shopspring/decimal"
)

// Summary aggregates the transactions matching a predicate.
type Summary struct {
	Count       int
	Deposits    int
	Withdrawals int

	TotalIn  int64 // sum of deposits
	TotalOut int64 // sum of withdrawals, as a positive number
	Net      int64 // TotalIn - TotalOut

	AverageIn  decimal.Decimal
	AverageOut decimal.Decimal

	// First and Last are the earliest and latest transaction days, zero when
	// Count is zero.
	First, Last date.Date
}

// Summary computes a Summary over the transactions matching p.
func (l *Ledger) Summary(p Predicate) Summary {
	return Summarize(l.Query(p))
}

// Summarize computes a Summary over txs.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		s.Count++
		if tx.IsDeposit() {
			s.Deposits++
			s.TotalIn += tx.Amount()
		} else {
			s.Withdrawals++
			s.TotalOut += tx.Abs()
		}
		if s.First.IsZero() || tx.Date().Before(s.First) {
			s.First = tx.Date()
		}
		if s.Last.IsZero() || tx.Date().After(s.Last) {
			s.Last = tx.Date()
		}
	}
	s.Net = s.TotalIn - s.TotalOut
	s.AverageIn = average(s.TotalIn, s.Deposits)
	s.AverageOut = average(s.TotalOut, s.Withdrawals)
	return s
}

func average(total int64, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(n))).Round(2)
}
