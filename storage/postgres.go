package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var postgresDialect = dialect{
	name:              "postgres",
	selectDestination: `SELECT revision::text FROM destinations WHERE name = $1`,
	upsertDestination: `INSERT INTO destinations (name, revision, saved_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET revision = EXCLUDED.revision, saved_at = EXCLUDED.saved_at`,
	deleteRows: `DELETE FROM transactions WHERE destination = $1`,
	insertRow:  `INSERT INTO transactions (destination, position, day, amount) VALUES ($1, $2, $3::date, $4)`,
	selectRows: `SELECT to_char(day, 'YYYY-MM-DD'), amount FROM transactions WHERE destination = $1 ORDER BY position`,
	savedAt:    func(t time.Time) any { return t },
}

// NewPostgres connects to the Postgres database at dsn and applies the schema
// migrations.
func NewPostgres(ctx context.Context, dsn string, log logrus.FieldLogger) (*SQL, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migratePostgres(dsn); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("postgres storage ready")
	return &SQL{db: db, dialect: postgresDialect, log: log}, nil
}

func migratePostgres(dsn string) error {
	migrateDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := postgres.WithInstance(migrateDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}
	return runMigrations(postgresDialect.name, driver)
}
