// Package storage provides the implementations of passbook.Storage: in
// memory, JSONL and XML files, SQLite and Postgres databases, and a Mirror
// writing to several of them at once.
package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/etnz/passbook"
)

// Memory is an in-memory implementation of passbook.Storage.
// It is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	saved map[string][]passbook.Transaction
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{saved: make(map[string][]passbook.Transaction)}
}

// Save keeps a copy of txs under destination, replacing any previous one.
func (m *Memory) Save(ctx context.Context, destination string, txs []passbook.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[destination] = append(make([]passbook.Transaction, 0, len(txs)), txs...)
	return nil
}

// Load returns a copy of the transactions saved under destination.
func (m *Memory) Load(ctx context.Context, destination string) ([]passbook.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txs, ok := m.saved[destination]
	if !ok {
		return nil, notFound(destination)
	}
	return slices.Clone(txs), nil
}

// Destinations returns the saved destination names, sorted.
func (m *Memory) Destinations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.saved))
	for name := range m.saved {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
