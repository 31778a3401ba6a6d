package service

import (
	"account-organizer/internal/config"
	"account-organizer/internal/database"
	"account-organizer/internal/models"
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DBDriver: config.DriverSQLite, DBPath: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

type fixture struct {
	db         *sqlx.DB
	accounts   *AccountService
	categories *CategoryService
	relations  *RelationService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := setupDB(t)
	logger := nullLogger()
	return fixture{
		db:         db,
		accounts:   NewAccountService(db, nil, "", logger),
		categories: NewCategoryService(db, nil, logger),
		relations:  NewRelationService(db, nil, logger),
	}
}

func (f fixture) account(t *testing.T, name string, categoryIDs ...int) *models.Account {
	t.Helper()
	a, err := f.accounts.Create(context.Background(), models.AccountRequest{Name: name, AccountCategoryIDs: categoryIDs})
	require.NoError(t, err)
	return a
}

func (f fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), models.CategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}
