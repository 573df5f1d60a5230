package config

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewPostgresDB opens the notice store. DATABASE_DRIVER picks lib/pq
// ("postgres") or the pgx stdlib adapter ("pgx"); both speak to the same
// schema.
func NewPostgresDB(cfg *Config) (*sqlx.DB, error) {
	driver := cfg.DatabaseDriver
	switch driver {
	case "", "postgres":
		driver = "postgres"
	case "pgx":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := sqlx.Connect(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}
