package passbook

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/etnz/passbook/date"
)

// CommandType is a typed string for identifying transaction commands in the
// persisted form.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
)

// Transaction is an immutable record of one deposit or withdrawal.
//
// A positive amount is a deposit, a negative amount is a withdrawal.
type Transaction struct {
	amount int64
	date   date.Date
}

// NewTransaction creates a transaction. The amount and date are not checked,
// see Validate.
func NewTransaction(amount int64, day date.Date) Transaction {
	return Transaction{amount: amount, date: day}
}

// Amount returns the signed amount.
func (t Transaction) Amount() int64 { return t.amount }

// Date returns the day of the transaction.
func (t Transaction) Date() date.Date { return t.date }

// What returns the command type of the transaction.
func (t Transaction) What() CommandType {
	if t.amount < 0 {
		return CmdWithdraw
	}
	return CmdDeposit
}

// IsDeposit reports whether money came in.
func (t Transaction) IsDeposit() bool { return t.amount > 0 }

// IsWithdrawal reports whether money went out.
func (t Transaction) IsWithdrawal() bool { return t.amount < 0 }

// Abs returns the unsigned amount.
func (t Transaction) Abs() int64 {
	if t.amount < 0 {
		return -t.amount
	}
	return t.amount
}

// Equal reports whether both transactions have the same amount and date.
func (t Transaction) Equal(o Transaction) bool { return t == o }

// String formats the transaction as "2024-01-05 +100".
func (t Transaction) String() string { return fmt.Sprintf("%s %+d", t.date, t.amount) }

// Validate checks a transaction read from untrusted input.
func (t Transaction) Validate() error {
	if t.amount == 0 {
		return fmt.Errorf("%w: transaction amount must not be zero", ErrInvalidAmount)
	}
	if t.amount == math.MinInt64 {
		return fmt.Errorf("%w: transaction amount %d has no positive counterpart", ErrInvalidAmount, t.amount)
	}
	if t.date.IsZero() {
		return fmt.Errorf("%w: transaction has no date", ErrInvalidDate)
	}
	return nil
}

// MarshalJSON writes the transaction as {"command":"deposit","date":"2024-01-05","amount":100}.
// The amount is always positive, the sign is carried by the command.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.What())
	w.Append("date", t.date)
	w.Append("amount", t.Abs())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Command CommandType `json:"command"`
		Date    date.Date   `json:"date"`
		Amount  int64       `json:"amount"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.Amount < 0 {
		return fmt.Errorf("%w: %s amount must be positive, got %d", ErrInvalidAmount, temp.Command, temp.Amount)
	}
	switch temp.Command {
	case CmdDeposit:
		*t = NewTransaction(temp.Amount, temp.Date)
	case CmdWithdraw:
		*t = NewTransaction(-temp.Amount, temp.Date)
	default:
		return fmt.Errorf("unknown transaction command: %q", temp.Command)
	}
	return t.Validate()
}

var _ json.Marshaler = Transaction{}
var _ json.Unmarshaler = (*Transaction)(nil)
