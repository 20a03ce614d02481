package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/etnz/passbook"
	"github.com/sirupsen/logrus"
)

// Kind names a Storage implementation.
type Kind string

// Known kinds.
const (
	KindMemory   Kind = "memory"
	KindJSONL    Kind = "jsonl"
	KindXML      Kind = "xml"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Kinds lists the known kinds, in the order they are documented.
var Kinds = []Kind{KindMemory, KindJSONL, KindXML, KindSQLite, KindPostgres}

// ParseKinds parses a comma separated list of kinds, like "jsonl,sqlite".
func ParseKinds(s string) ([]Kind, error) {
	var kinds []Kind
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		k := Kind(part)
		switch k {
		case KindMemory, KindJSONL, KindXML, KindSQLite, KindPostgres:
			kinds = append(kinds, k)
		default:
			return nil, fmt.Errorf("unknown storage kind %q", part)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no storage kind in %q", s)
	}
	return kinds, nil
}

// Config selects and configures the storage opened by Open.
type Config struct {
	Kinds       []Kind
	Dir         string // directory of the file stores
	SQLitePath  string // defaults to passbook.db in Dir
	PostgresDSN string
	Logger      logrus.FieldLogger
}

// Open creates the storage described by cfg. Several kinds are combined in a
// Mirror, in the given order.
//
// The returned closer releases database connections and must be closed once
// the storage is no longer used.
func Open(ctx context.Context, cfg Config) (passbook.Storage, io.Closer, error) {
	if len(cfg.Kinds) == 0 {
		return nil, nil, errors.New("no storage kind configured")
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	var (
		stores  []passbook.Storage
		closers closers
	)
	for _, kind := range cfg.Kinds {
		s, c, err := open(ctx, kind, cfg, log)
		if err != nil {
			closers.Close()
			return nil, nil, fmt.Errorf("open %s storage: %w", kind, err)
		}
		stores = append(stores, s)
		if c != nil {
			closers = append(closers, c)
		}
	}

	if len(stores) == 1 {
		return stores[0], closers, nil
	}
	return NewMirror(stores...), closers, nil
}

func open(ctx context.Context, kind Kind, cfg Config, log logrus.FieldLogger) (passbook.Storage, io.Closer, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil, nil
	case KindJSONL:
		return NewJSONL(cfg.Dir), nil, nil
	case KindXML:
		return NewXML(cfg.Dir), nil, nil
	case KindSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.Dir, "passbook.db")
		}
		s, err := NewSQLite(ctx, path, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case KindPostgres:
		if cfg.PostgresDSN == "" {
			return nil, nil, errors.New("missing postgres DSN")
		}
		s, err := NewPostgres(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage kind %q", kind)
	}
}

// closers closes all its members and joins their errors.
type closers []io.Closer

func (cs closers) Close() error {
	var errs []error
	for _, c := range cs {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
