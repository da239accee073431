package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Supported database drivers
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

// DatabaseSettings configures the key pair store.
//
// For SQLite the DSN is a file path (":memory:" when empty). For PostgreSQL
// the DSN is a keyword/value connection string without dbname; Name selects
// the database, which is created on first connect.
type DatabaseSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`
	DSN  string `mapstructure:"dsn"`
	Name string `mapstructure:"name"`
}

// Validate checks the driver type and that PostgreSQL has a DSN.
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}
	if s.Type == PostgresDbType && s.DSN == "" {
		return fmt.Errorf("dsn is required for %s", PostgresDbType)
	}
	return nil
}
