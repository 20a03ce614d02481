package passbook

import (
	"context"
	"fmt"
	"strings"
)

// Storage saves and loads an ordered sequence of transactions under a
// destination name.
//
// Implementations must honor the round-trip law: a Load after a successful
// Save on the same destination returns a sequence equal to the one saved, in
// the same order. Loading an unknown destination fails with an error matching
// ErrNotFound. The encoding is left to the implementation.
type Storage interface {
	Save(ctx context.Context, destination string, txs []Transaction) error
	Load(ctx context.Context, destination string) ([]Transaction, error)
}

const maxDestinationLength = 128

// ValidateDestination checks that a destination name can be used as a file
// name or a database key by every Storage in this module.
func ValidateDestination(destination string) error {
	switch {
	case strings.TrimSpace(destination) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidDestination)
	case len(destination) > maxDestinationLength:
		return fmt.Errorf("%w: name longer than %d bytes", ErrInvalidDestination, maxDestinationLength)
	case strings.ContainsAny(destination, `/\`), strings.Contains(destination, ".."):
		return fmt.Errorf("%w: %q must not contain a path", ErrInvalidDestination, destination)
	case strings.ContainsRune(destination, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidDestination, destination)
	}
	return nil
}
