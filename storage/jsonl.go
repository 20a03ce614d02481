package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/etnz/passbook"
)

// JSONL stores each destination as a "<destination>.jsonl" file in a
// directory, one transaction per line.
type JSONL struct {
	dir dir
}

// NewJSONL creates a JSONL store in root. The directory is created on the
// first save.
func NewJSONL(root string) *JSONL {
	return &JSONL{dir: dir{root: root, ext: ".jsonl"}}
}

// Save writes txs to the destination file, replacing it.
func (s *JSONL) Save(ctx context.Context, destination string, txs []passbook.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dir.write(destination, func(w io.Writer) error {
		return passbook.EncodeTransactions(w, txs)
	})
}

// Load reads the transactions of the destination file.
func (s *JSONL) Load(ctx context.Context, destination string) ([]passbook.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var txs []passbook.Transaction
	err := s.dir.read(destination, func(r io.Reader) (err error) {
		txs, err = passbook.DecodeTransactions(r)
		if err != nil {
			return fmt.Errorf("decode %s%s: %w", destination, s.dir.ext, err)
		}
		return nil
	})
	return txs, err
}

// Destinations lists the saved destinations, sorted.
func (s *JSONL) Destinations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.dir.destinations()
}
