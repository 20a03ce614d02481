// Package renderer turns ledger data into markdown documents.
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currency returns the go-money currency for code.
func currency(code string) money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, code).Currency()
}

// Amount formats an amount of whole currency units, like "€100.00".
func Amount(amount int64, code string) string {
	return Decimal(decimal.NewFromInt(amount), code)
}

// Decimal formats a decimal amount of currency units, rounded to the
// currency fraction.
func Decimal(amount decimal.Decimal, code string) string {
	cur := currency(code)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedAmount formats an amount with an explicit sign, like "+€100.00".
func SignedAmount(amount int64, code string) string {
	if amount > 0 {
		return "+" + Amount(amount, code)
	}
	return Amount(amount, code)
}
