package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/passbook"
	"golang.org/x/sync/errgroup"
)

// Mirror writes every save to all its stores concurrently, and loads from the
// first store that can serve the destination.
type Mirror struct {
	stores []passbook.Storage
}

// NewMirror creates a Mirror over stores. The order of stores is the order
// used by Load.
func NewMirror(stores ...passbook.Storage) *Mirror {
	return &Mirror{stores: stores}
}

// Save saves txs to every store. It fails if any store fails; the stores that
// succeeded keep the new version.
func (m *Mirror) Save(ctx context.Context, destination string, txs []passbook.Transaction) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range m.stores {
		g.Go(func() error {
			// each store gets a slice of its own.
			own := append([]passbook.Transaction(nil), txs...)
			if err := s.Save(ctx, destination, own); err != nil {
				return fmt.Errorf("store #%d: %w", i+1, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Load returns the transactions from the first store that has destination.
// When no store has it, the returned error matches passbook.ErrNotFound.
func (m *Mirror) Load(ctx context.Context, destination string) ([]passbook.Transaction, error) {
	var errs []error
	for i, s := range m.stores {
		txs, err := s.Load(ctx, destination)
		if err == nil {
			return txs, nil
		}
		errs = append(errs, fmt.Errorf("store #%d: %w", i+1, err))
	}
	if len(errs) == 0 {
		return nil, notFound(destination)
	}
	return nil, errors.Join(errs...)
}

// Destinations returns the sorted union of the destinations of the stores
// that can list them.
func (m *Mirror) Destinations(ctx context.Context) ([]string, error) {
	var names []string
	for i, s := range m.stores {
		l, ok := s.(Lister)
		if !ok {
			continue
		}
		more, err := l.Destinations(ctx)
		if err != nil {
			return nil, fmt.Errorf("store #%d: %w", i+1, err)
		}
		names = append(names, more...)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
