package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/etnz/passbook"
	"github.com/etnz/passbook/date"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

// dialect holds the statements that differ between SQL databases.
type dialect struct {
	name              string // migrate database name, also the migrations sub directory
	selectDestination string
	upsertDestination string
	deleteRows        string
	insertRow         string
	selectRows        string
	// savedAt converts the save time to the value bound to the saved_at column.
	savedAt func(time.Time) any
}

// SQL is a passbook.Storage backed by a database/sql database.
//
// Each save records the destination with a fresh revision and replaces its
// rows in a single SQL transaction. Rows keep their position so loading
// returns them in the saved order.
type SQL struct {
	db      *sql.DB
	dialect dialect
	log     logrus.FieldLogger
}

var _ io.Closer = (*SQL)(nil)

// Close closes the underlying database.
func (s *SQL) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save replaces the transactions of destination with txs.
func (s *SQL) Save(ctx context.Context, destination string, txs []passbook.Transaction) error {
	if err := passbook.ValidateDestination(destination); err != nil {
		return err
	}
	revision := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.upsertDestination, destination, revision, s.dialect.savedAt(time.Now().UTC())); err != nil {
		return fmt.Errorf("record destination: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.deleteRows, destination); err != nil {
		return fmt.Errorf("clear previous rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.insertRow)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, t := range txs {
		if _, err := stmt.ExecContext(ctx, destination, i, t.Date().String(), t.Amount()); err != nil {
			return fmt.Errorf("insert transaction #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"destination": destination,
		"revision":    revision,
		"count":       len(txs),
	}).Debug("transactions saved to " + s.dialect.name)
	return nil
}

// Load returns the transactions of destination in their saved order.
func (s *SQL) Load(ctx context.Context, destination string) ([]passbook.Transaction, error) {
	if err := passbook.ValidateDestination(destination); err != nil {
		return nil, err
	}

	var revision string
	err := s.db.QueryRowContext(ctx, s.dialect.selectDestination, destination).Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(destination)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup destination: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.selectRows, destination)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]passbook.Transaction, 0)
	for rows.Next() {
		var (
			day    string
			amount int64
		)
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		d, err := date.ParseISO(day)
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", len(txs)+1, err)
		}
		txs = append(txs, passbook.NewTransaction(amount, d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"destination": destination,
		"revision":    revision,
		"count":       len(txs),
	}).Debug("transactions loaded from " + s.dialect.name)
	return txs, nil
}

// Destinations lists the saved destinations, sorted.
func (s *SQL) Destinations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM destinations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query destinations: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read destinations: %w", err)
	}
	return names, nil
}

// runMigrations applies the embedded migrations of the dialect through
// driver. Closing the returned migrate instance also closes the driver
// database, so callers give it a connection of its own.
func runMigrations(name string, driver database.Driver) error {
	src, err := iofs.New(migrationsFS, "migrations/"+name)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
