package repository

import (
	"account-organizer/internal/config"
	"account-organizer/internal/database"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DBDriver: config.DriverSQLite, DBPath: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
