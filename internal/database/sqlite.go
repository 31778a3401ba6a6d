package database

import (
	"account-organizer/internal/config"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

func NewSQLite(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.DBPath == MemoryPath {
		db, err := sqlx.Connect("sqlite", MemoryPath)
		if err != nil {
			return nil, err
		}
		// every new connection would see an empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return db, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sqlx.Connect("sqlite", sqliteDSN(cfg.DBPath))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

// sqliteDSN starts every transaction with BEGIN IMMEDIATE. A deferred
// transaction that reads and then writes can fail with SQLITE_BUSY when
// another connection commits first, and busy_timeout does not retry that.
func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate", path)
}
