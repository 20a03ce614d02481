package passbook

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when an amount is not strictly positive
	// where it must be, or when a decoded transaction has a zero amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDate is returned when a transaction has no date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrOverflow is returned when a balance would not fit in an int64.
	ErrOverflow = errors.New("balance overflow")

	// ErrStorage is matched by every error reported by a Storage through the ledger.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound is returned by a Storage when loading an unknown destination.
	ErrNotFound = errors.New("destination not found")
	// ErrNoStorage is returned when saving or loading a ledger created without storage.
	ErrNoStorage = errors.New("no storage configured")
	// ErrInvalidDestination is returned for destination names a Storage refuses.
	ErrInvalidDestination = errors.New("invalid destination")
)

// StorageError reports a failed save or load.
//
// It matches ErrStorage with errors.Is and unwraps to the underlying cause,
// so both errors.Is(err, ErrStorage) and errors.Is(err, ErrNotFound) hold for
// a load of a missing destination.
type StorageError struct {
	Op          string // "save" or "load"
	Destination string
	Err         error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Destination, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
