package passbook

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/etnz/passbook/date"
)

func TestTransaction(t *testing.T) {
	d := date.New(2024, 1, 5)
	testCases := []struct {
		tx         Transaction
		what       CommandType
		deposit    bool
		withdrawal bool
		abs        int64
		str        string
	}{
		{NewTransaction(100, d), CmdDeposit, true, false, 100, "2024-01-05 +100"},
		{NewTransaction(-30, d), CmdWithdraw, false, true, 30, "2024-01-05 -30"},
	}
	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			if got := tc.tx.What(); got != tc.what {
				t.Errorf("What() = %q, want %q", got, tc.what)
			}
			if got := tc.tx.IsDeposit(); got != tc.deposit {
				t.Errorf("IsDeposit() = %v, want %v", got, tc.deposit)
			}
			if got := tc.tx.IsWithdrawal(); got != tc.withdrawal {
				t.Errorf("IsWithdrawal() = %v, want %v", got, tc.withdrawal)
			}
			if got := tc.tx.Abs(); got != tc.abs {
				t.Errorf("Abs() = %d, want %d", got, tc.abs)
			}
			if got := tc.tx.String(); got != tc.str {
				t.Errorf("String() = %q, want %q", got, tc.str)
			}
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	if err := NewTransaction(0, date.New(2024, 1, 5)).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want %v", err, ErrInvalidAmount)
	}
	if err := NewTransaction(10, date.Date{}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("zero date: got %v, want %v", err, ErrInvalidDate)
	}
	if err := NewTransaction(math.MinInt64, date.New(2024, 1, 5)).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("MinInt64 amount: got %v, want %v", err, ErrInvalidAmount)
	}
	if err := NewTransaction(-10, date.New(2024, 1, 5)).Validate(); err != nil {
		t.Errorf("valid withdrawal: unexpected error %v", err)
	}
}

func TestTransaction_JSON(t *testing.T) {
	got, err := json.Marshal(NewTransaction(-30, date.New(2024, 1, 5)))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if want := `{"command":"withdraw","date":"2024-01-05","amount":30}`; string(got) != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	testCases := []struct {
		name    string
		input   string
		want    Transaction
		wantErr bool
	}{
		{"deposit", `{"command":"deposit","date":"2024-01-05","amount":100}`, NewTransaction(100, date.New(2024, 1, 5)), false},
		{"withdraw", `{"command":"withdraw","date":"2024-01-05","amount":30}`, NewTransaction(-30, date.New(2024, 1, 5)), false},
		{"negative amount", `{"command":"withdraw","date":"2024-01-05","amount":-30}`, Transaction{}, true},
		{"zero amount", `{"command":"deposit","date":"2024-01-05","amount":0}`, Transaction{}, true},
		{"missing date", `{"command":"deposit","amount":10}`, Transaction{}, true},
		{"unknown command", `{"command":"buy","date":"2024-01-05","amount":10}`, Transaction{}, true},
		{"bad date", `{"command":"deposit","date":"2024-13-05","amount":10}`, Transaction{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Transaction
			err := json.Unmarshal([]byte(tc.input), &got)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && !got.Equal(tc.want) {
				t.Errorf("Unmarshal = %v, want %v", got, tc.want)
			}
		})
	}
}
