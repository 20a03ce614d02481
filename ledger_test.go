package passbook

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/etnz/passbook/date"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// mapStorage is a minimal in memory Storage for tests of this package.
type mapStorage struct {
	saved map[string][]Transaction
	err   error // returned by every call when set
}

func (s *mapStorage) Save(_ context.Context, destination string, txs []Transaction) error {
	if s.err != nil {
		return s.err
	}
	if s.saved == nil {
		s.saved = make(map[string][]Transaction)
	}
	s.saved[destination] = txs
	return nil
}

func (s *mapStorage) Load(_ context.Context, destination string) ([]Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	txs, ok := s.saved[destination]
	if !ok {
		return nil, ErrNotFound
	}
	return txs, nil
}

// fixedClock returns a clock that always returns the same day.
func fixedClock(day string) func() date.Date {
	d := date.MustParse(day)
	return func() date.Date { return d }
}

// steppingClock returns successive days from the list, then stays on the last one.
func steppingClock(days ...string) func() date.Date {
	i := 0
	return func() date.Date {
		d := date.MustParse(days[min(i, len(days)-1)])
		i++
		return d
	}
}

func tx(amount int64, day string) Transaction { return NewTransaction(amount, date.MustParse(day)) }

func TestLedger_Deposit(t *testing.T) {
	ledger := NewLedger(WithClock(fixedClock("2024-01-05")))

	got, ok := ledger.Deposit(100)
	if !ok {
		t.Fatalf("Deposit(100) was ignored")
	}
	if want := tx(100, "2024-01-05"); got != want {
		t.Errorf("Deposit(100) = %v, want %v", got, want)
	}
	if got := ledger.Balance(); got != 100 {
		t.Errorf("Balance() = %d, want 100", got)
	}
	want := []Transaction{tx(100, "2024-01-05")}
	if diff := cmp.Diff(want, ledger.Query(AcceptAll)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_WithdrawInsufficientFunds(t *testing.T) {
	ledger := NewLedger()
	ledger.Deposit(100)

	_, err := ledger.Withdraw(150)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Withdraw(150) error = %v, want %v", err, ErrInsufficientFunds)
	}
	if got := ledger.Balance(); got != 100 {
		t.Errorf("Balance() = %d, want 100", got)
	}
	if got := ledger.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestLedger_DepositsAndWithdraw(t *testing.T) {
	ledger := NewLedger(WithClock(fixedClock("2024-03-01")))
	ledger.Deposit(50)
	ledger.Deposit(50)
	if _, err := ledger.Withdraw(30); err != nil {
		t.Fatalf("Withdraw(30) failed: %v", err)
	}

	if got := ledger.Balance(); got != 70 {
		t.Errorf("Balance() = %d, want 70", got)
	}
	want := []Transaction{
		tx(50, "2024-03-01"),
		tx(50, "2024-03-01"),
		tx(-30, "2024-03-01"),
	}
	if diff := cmp.Diff(want, ledger.Query(AcceptAll)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_WithdrawWholeBalance(t *testing.T) {
	ledger := NewLedger()
	ledger.Deposit(40)
	if _, err := ledger.Withdraw(40); err != nil {
		t.Fatalf("Withdraw(40) failed: %v", err)
	}
	if got := ledger.Balance(); got != 0 {
		t.Errorf("Balance() = %d, want 0", got)
	}
}

func TestLedger_NonPositiveAmounts(t *testing.T) {
	ledger := NewLedger()
	ledger.Deposit(20)

	for _, amount := range []int64{0, -5} {
		if _, ok := ledger.Deposit(amount); ok {
			t.Errorf("Deposit(%d) was accepted", amount)
		}
		if _, err := ledger.Withdraw(amount); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Withdraw(%d) error = %v, want %v", amount, err, ErrInvalidAmount)
		}
	}
	if got := ledger.Balance(); got != 20 {
		t.Errorf("Balance() = %d, want 20", got)
	}
	if got := ledger.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestLedger_DepositOverflow(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ledger := NewLedger(WithLogger(logger))
	if _, ok := ledger.Deposit(math.MaxInt64); !ok {
		t.Fatalf("Deposit(MaxInt64) on an empty ledger was refused")
	}

	if _, ok := ledger.Deposit(1); ok {
		t.Errorf("Deposit(1) over MaxInt64 was accepted")
	}
	if got := ledger.Balance(); got != math.MaxInt64 {
		t.Errorf("Balance() = %d, want %d", got, int64(math.MaxInt64))
	}
	if got := ledger.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Data[logrus.ErrorKey] != ErrOverflow {
		t.Errorf("last log entry = %v, want a warning with %v", entry, ErrOverflow)
	}
}

func TestLedger_DeleteOverflow(t *testing.T) {
	ledger := NewLedger()
	ledger.Deposit(math.MaxInt64)
	ledger.Withdraw(math.MaxInt64)
	ledger.Deposit(math.MaxInt64)

	// without the withdrawal the remaining deposits would not fit in the balance.
	if got := ledger.Delete(Withdrawals); got != 0 {
		t.Errorf("Delete(Withdrawals) = %d, want 0", got)
	}
	if got, n := ledger.Balance(), ledger.Len(); got != math.MaxInt64 || n != 3 {
		t.Errorf("after refused Delete: balance = %d, len = %d, want %d, 3", got, n, int64(math.MaxInt64))
	}
}

func TestLedger_LoadOverflow(t *testing.T) {
	store := &mapStorage{saved: map[string][]Transaction{
		"big": {tx(math.MaxInt64, "2024-01-05"), tx(1, "2024-01-06")},
		"min": {tx(math.MinInt64, "2024-01-05")},
	}}
	for _, name := range []string{"big", "min"} {
		t.Run(name, func(t *testing.T) {
			ledger := NewLedger(WithStorage(store))
			ledger.Deposit(10)
			err := ledger.Load(context.Background(), name)
			if !errors.Is(err, ErrStorage) {
				t.Errorf("Load(%q) error = %v, want a storage error", name, err)
			}
			if got, n := ledger.Balance(), ledger.Len(); got != 0 || n != 0 {
				t.Errorf("after failed Load: balance = %d, len = %d, want 0, 0", got, n)
			}
		})
	}
	ledger := NewLedger(WithStorage(store))
	if err := ledger.Load(context.Background(), "big"); !errors.Is(err, ErrOverflow) {
		t.Errorf("Load(big) error = %v, want %v", err, ErrOverflow)
	}
}

// TestLedger_BalanceInvariant plays a sequence of operations and checks after
// each one that the balance is the sum of the history and never negative.
func TestLedger_BalanceInvariant(t *testing.T) {
	ledger := NewLedger()
	ops := []int64{100, -30, -80, 25, 0, -95, -1, 10, -5, 300, -310}
	for i, op := range ops {
		if op >= 0 {
			ledger.Deposit(op)
		} else {
			ledger.Withdraw(-op)
		}
		balance := ledger.Balance()
		if balance < 0 {
			t.Fatalf("after op #%d (%d): balance is negative: %d", i, op, balance)
		}
		if sum, _, _ := fold(ledger.Query(AcceptAll)); sum != balance {
			t.Fatalf("after op #%d (%d): balance %d != sum of history %d", i, op, balance, sum)
		}
	}
}

func TestLedger_Query(t *testing.T) {
	ledger := NewLedger(WithClock(steppingClock("2024-01-05", "2024-01-05", "2024-02-05", "2025-01-05")))
	ledger.Deposit(10)
	ledger.Deposit(20)
	ledger.Deposit(30)
	ledger.Deposit(40)

	testCases := []struct {
		name string
		p    Predicate
		want []Transaction
	}{
		{
			name: "all",
			p:    AcceptAll,
			want: []Transaction{tx(10, "2024-01-05"), tx(20, "2024-01-05"), tx(30, "2024-02-05"), tx(40, "2025-01-05")},
		},
		{
			name: "nil matches all",
			p:    nil,
			want: []Transaction{tx(10, "2024-01-05"), tx(20, "2024-01-05"), tx(30, "2024-02-05"), tx(40, "2025-01-05")},
		},
		{
			name: "exact day",
			p:    OnDay(date.MustParse("2024-01-05")),
			want: []Transaction{tx(10, "2024-01-05"), tx(20, "2024-01-05")},
		},
		{
			name: "month",
			p:    InMonth(2024, 1),
			want: []Transaction{tx(10, "2024-01-05"), tx(20, "2024-01-05")},
		},
		{
			name: "year",
			p:    InYear(2024),
			want: []Transaction{tx(10, "2024-01-05"), tx(20, "2024-01-05"), tx(30, "2024-02-05")},
		},
		{
			name: "no match",
			p:    OnDay(date.MustParse("2023-12-31")),
			want: []Transaction{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ledger.Query(tc.p)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLedger_QueryMonth(t *testing.T) {
	ledger := NewLedger(WithClock(steppingClock("2024-01-05", "2024-02-05")))
	ledger.Deposit(10)
	ledger.Deposit(20)

	got := ledger.Query(InMonth(2024, 1))
	want := []Transaction{tx(10, "2024-01-05")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query(InMonth(2024, 1)) mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_QueryReturnsCopy(t *testing.T) {
	ledger := NewLedger(WithClock(fixedClock("2024-01-05")))
	ledger.Deposit(10)

	got := ledger.Query(AcceptAll)
	got[0] = tx(999, "1999-01-01")

	if again := ledger.Query(AcceptAll); again[0] != tx(10, "2024-01-05") {
		t.Errorf("history was modified through a query result: %v", again[0])
	}
}

func TestLedger_Transactions(t *testing.T) {
	ledger := NewLedger(WithClock(steppingClock("2024-01-05", "2024-01-06", "2024-01-07")))
	ledger.Deposit(10)
	ledger.Deposit(20)
	ledger.Withdraw(5)

	var indexes []int
	for i, tx := range ledger.Transactions(Deposits) {
		indexes = append(indexes, i)
		// modifying the ledger while iterating must not disturb the iteration.
		ledger.Deposit(tx.Amount())
	}
	if diff := cmp.Diff([]int{0, 1}, indexes); diff != "" {
		t.Errorf("Transactions() indexes mismatch (-want +got):\n%s", diff)
	}

	// Early break.
	count := 0
	for range ledger.Transactions(AcceptAll) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("iteration did not stop, got %d items", count)
	}
}

func TestLedger_Delete(t *testing.T) {
	ledger := NewLedger(WithClock(steppingClock("2024-01-05", "2024-01-06", "2024-01-06")))
	ledger.Deposit(100)
	ledger.Deposit(50)
	ledger.Withdraw(30)

	if got := ledger.Delete(OnDay(date.MustParse("2024-01-06"))); got != 2 {
		t.Errorf("Delete() = %d, want 2", got)
	}
	if got := ledger.Balance(); got != 100 {
		t.Errorf("Balance() = %d, want 100", got)
	}
	if got := ledger.Delete(OnDay(date.MustParse("2024-01-06"))); got != 0 {
		t.Errorf("second Delete() = %d, want 0", got)
	}

	if got := ledger.Delete(AcceptAll); got != 1 {
		t.Errorf("Delete(AcceptAll) = %d, want 1", got)
	}
	if got, n := ledger.Balance(), ledger.Len(); got != 0 || n != 0 {
		t.Errorf("after Delete(AcceptAll): balance = %d, len = %d, want 0, 0", got, n)
	}
}

func TestLedger_DeleteDepositsKeepsBalanceConsistent(t *testing.T) {
	ledger := NewLedger()
	ledger.Deposit(100)
	ledger.Withdraw(60)
	ledger.Delete(Deposits)

	// the history now only holds the withdrawal: the balance follows it.
	if got := ledger.Balance(); got != -60 {
		t.Errorf("Balance() = %d, want -60", got)
	}
}

func TestLedger_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := &mapStorage{}
	ledger := NewLedger(WithStorage(store), WithClock(steppingClock("2024-01-05", "2024-01-06", "2024-01-07")))
	ledger.Deposit(100)
	ledger.Deposit(50)
	ledger.Withdraw(30)
	original := ledger.Query(AcceptAll)

	if err := ledger.Save(ctx, "x"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	fresh := NewLedger(WithStorage(store))
	if err := fresh.Load(ctx, "x"); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if diff := cmp.Diff(original, fresh.Query(AcceptAll)); diff != "" {
		t.Errorf("loaded history mismatch (-want +got):\n%s", diff)
	}
	// the balance of a loaded ledger is the sum of its history.
	if got := fresh.Balance(); got != 120 {
		t.Errorf("Balance() after Load = %d, want 120", got)
	}
}

func TestLedger_SaveHandsACopy(t *testing.T) {
	store := &mapStorage{}
	ledger := NewLedger(WithStorage(store), WithClock(fixedClock("2024-01-05")))
	ledger.Deposit(10)
	if err := ledger.Save(context.Background(), "x"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	store.saved["x"][0] = tx(1, "2000-01-01")

	if got := ledger.Query(AcceptAll)[0]; got != tx(10, "2024-01-05") {
		t.Errorf("history changed through the storage: %v", got)
	}
}

func TestLedger_SaveFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	ledger := NewLedger(WithStorage(&mapStorage{err: boom}))
	ledger.Deposit(10)

	err := ledger.Save(ctx, "x")
	if !errors.Is(err, ErrStorage) || !errors.Is(err, boom) {
		t.Errorf("Save() error = %v, want a storage error wrapping %v", err, boom)
	}
	var serr *StorageError
	if !errors.As(err, &serr) || serr.Op != "save" || serr.Destination != "x" {
		t.Errorf("Save() error = %#v, want a *StorageError for save x", err)
	}
	if got := ledger.Balance(); got != 10 {
		t.Errorf("Balance() = %d, want 10", got)
	}
}

func TestLedger_LoadFailureResets(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(WithStorage(&mapStorage{}))
	ledger.Deposit(10)

	err := ledger.Load(ctx, "missing")
	if !errors.Is(err, ErrStorage) || !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want a storage error wrapping %v", err, ErrNotFound)
	}
	if got, n := ledger.Balance(), ledger.Len(); got != 0 || n != 0 {
		t.Errorf("after failed Load: balance = %d, len = %d, want 0, 0", got, n)
	}
}

func TestLedger_LoadRejectsInvalidTransactions(t *testing.T) {
	store := &mapStorage{saved: map[string][]Transaction{
		"bad": {tx(10, "2024-01-05"), NewTransaction(0, date.MustParse("2024-01-06"))},
	}}
	ledger := NewLedger(WithStorage(store))
	if err := ledger.Load(context.Background(), "bad"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Load() error = %v, want %v", err, ErrInvalidAmount)
	}
}

func TestLedger_Destinations(t *testing.T) {
	ctx := context.Background()

	t.Run("no storage", func(t *testing.T) {
		ledger := NewLedger()
		if err := ledger.Save(ctx, "x"); !errors.Is(err, ErrNoStorage) {
			t.Errorf("Save() error = %v, want %v", err, ErrNoStorage)
		}
		if err := ledger.Load(ctx, "x"); !errors.Is(err, ErrNoStorage) {
			t.Errorf("Load() error = %v, want %v", err, ErrNoStorage)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		ledger := NewLedger(WithStorage(&mapStorage{}))
		for _, name := range []string{"", "  ", "../x", "a/b", `a\b`} {
			if err := ledger.Save(ctx, name); !errors.Is(err, ErrInvalidDestination) {
				t.Errorf("Save(%q) error = %v, want %v", name, err, ErrInvalidDestination)
			}
		}
	})
}

func TestLedger_Notifications(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ledger := NewLedger(WithLogger(logger), WithStorage(&mapStorage{}))

	ledger.Deposit(100)
	if entry := hook.LastEntry(); entry == nil || entry.Message != "deposited" || entry.Data["balance"] != int64(100) {
		t.Errorf("deposit notification = %v, want \"deposited\" with balance 100", entry)
	}

	ledger.Withdraw(500)
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Message != "withdrawal rejected" {
		t.Fatalf("withdraw notification = %v, want a warning", entry)
	}
	if err, _ := entry.Data[logrus.ErrorKey].(error); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("withdraw notification error = %v, want %v", err, ErrInsufficientFunds)
	}

	ledger.Load(context.Background(), "missing")
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.WarnLevel {
		t.Errorf("load notification = %v, want a warning", entry)
	}
}

func TestLedger_Concurrent(t *testing.T) {
	ledger := NewLedger()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ledger.Deposit(10)
		}()
		go func() {
			defer wg.Done()
			ledger.Withdraw(5)
		}()
	}
	wg.Wait()

	sum, _, err := fold(ledger.Query(AcceptAll))
	if got := ledger.Balance(); err != nil || got != sum || got < 0 {
		t.Errorf("Balance() = %d, sum of history = %d", got, sum)
	}
}
