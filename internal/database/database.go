package database

import (
	"account-organizer/internal/config"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Open connects to the configured driver and brings the schema up to date.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.DBDriver {
	case config.DriverMySQL:
		db, err = NewMySQL(cfg)
	default:
		db, err = NewSQLite(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	if err := Migrate(db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
