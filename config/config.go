// Package config reads the passbook configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/passbook"
	"github.com/etnz/passbook/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Output formats.
const (
	OutputTerminal = "terminal" // markdown rendered for a terminal
	OutputMarkdown = "markdown" // raw markdown
)

// Config holds the pbk settings read from PASSBOOK_* environment variables,
// a .env file and the global flags. Call Validate before use.
type Config struct {
	// Storage
	Store       string // comma separated storage kinds
	DataDir     string
	SQLitePath  string
	PostgresDSN string

	// Ledger is the destination of the working ledger used by one-shot commands.
	Ledger string

	// Display
	Currency string
	Output   string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if there is one.
func Load() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("PASSBOOK_DATA_DIR", ".passbook")
	cfg := &Config{
		Store:       getEnv("PASSBOOK_STORE", "jsonl"),
		DataDir:     dataDir,
		SQLitePath:  getEnv("PASSBOOK_SQLITE_PATH", filepath.Join(dataDir, "passbook.db")),
		PostgresDSN: getEnv("PASSBOOK_POSTGRES_DSN", ""),

		Ledger: getEnv("PASSBOOK_LEDGER", "current"),

		Currency: strings.ToUpper(getEnv("PASSBOOK_CURRENCY", "EUR")),
		Output:   getEnv("PASSBOOK_OUTPUT", OutputTerminal),

		LogLevel:  getEnv("PASSBOOK_LOG_LEVEL", "warn"),
		LogFormat: getEnv("PASSBOOK_LOG_FORMAT", "text"),
	}
	return cfg
}

// Validate validates the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	kinds, err := storage.ParseKinds(c.Store)
	if err != nil {
		errors = append(errors, fmt.Sprintf("invalid store %q: %v", c.Store, err))
	}
	for _, k := range kinds {
		switch k {
		case storage.KindJSONL, storage.KindXML:
			if c.DataDir == "" {
				errors = append(errors, fmt.Sprintf("data directory cannot be empty when using the %s store", k))
			}
		case storage.KindSQLite:
			if c.SQLitePath == "" {
				errors = append(errors, "SQLite database path cannot be empty when using the sqlite store")
			}
		case storage.KindPostgres:
			if c.PostgresDSN == "" {
				errors = append(errors, "PASSBOOK_POSTGRES_DSN is required when using the postgres store")
			}
		}
	}

	if err := passbook.ValidateDestination(c.Ledger); err != nil {
		errors = append(errors, fmt.Sprintf("invalid ledger name: %v", err))
	}

	if money.GetCurrency(c.Currency) == nil {
		errors = append(errors, fmt.Sprintf("unknown currency %q", c.Currency))
	}

	if c.Output != OutputTerminal && c.Output != OutputMarkdown {
		errors = append(errors, fmt.Sprintf("invalid output %q: must be one of %q or %q", c.Output, OutputTerminal, OutputMarkdown))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level: %v", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format %q: must be text or json", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Storage returns the storage configuration. The configuration must be valid.
func (c *Config) Storage(log logrus.FieldLogger) storage.Config {
	kinds, _ := storage.ParseKinds(c.Store)
	return storage.Config{
		Kinds:       kinds,
		Dir:         c.DataDir,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
		Logger:      log,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
