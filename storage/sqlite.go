package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name:              "sqlite",
	selectDestination: `SELECT revision FROM destinations WHERE name = ?`,
	upsertDestination: `INSERT INTO destinations (name, revision, saved_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET revision = excluded.revision, saved_at = excluded.saved_at`,
	deleteRows: `DELETE FROM transactions WHERE destination = ?`,
	insertRow:  `INSERT INTO transactions (destination, position, day, amount) VALUES (?, ?, ?, ?)`,
	selectRows: `SELECT day, amount FROM transactions WHERE destination = ? ORDER BY position`,
	savedAt:    func(t time.Time) any { return t.Format(time.RFC3339) },
}

// NewSQLite opens (or creates) the SQLite database at path and applies the
// schema migrations.
func NewSQLite(ctx context.Context, path string, log logrus.FieldLogger) (*SQL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single writer avoids "database is locked" errors from concurrent saves.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSQLite(path); err != nil {
		db.Close()
		return nil, err
	}

	log.WithField("path", path).Debug("sqlite storage ready")
	return &SQL{db: db, dialect: sqliteDialect, log: log}, nil
}

func migrateSQLite(path string) error {
	migrateDB, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	return runMigrations(sqliteDialect.name, driver)
}
