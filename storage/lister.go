package storage

import "context"

// Lister is implemented by the stores that can enumerate their destinations.
type Lister interface {
	Destinations(ctx context.Context) ([]string, error)
}

var (
	_ Lister = (*Memory)(nil)
	_ Lister = (*JSONL)(nil)
	_ Lister = (*XML)(nil)
	_ Lister = (*SQL)(nil)
	_ Lister = (*Mirror)(nil)
)
