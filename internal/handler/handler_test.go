package handler

import (
	"account-organizer/internal/config"
	"account-organizer/internal/database"
	"account-organizer/internal/service"
	"account-organizer/internal/utils"
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Data       json.RawMessage      `json:"data"`
	Error      string               `json:"error"`
	Pagination utils.PaginationMeta `json:"pagination"`
}

// newTestApp wires the account and category handlers onto an in-memory store
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		DBDriver:      config.DriverSQLite,
		DBPath:        database.MemoryPath,
		UploadMaxSize: 1 << 20,
		UploadPath:    dir,
		ExportPath:    dir,
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger, _ := test.NewNullLogger()
	excelService := service.NewExcelService()
	accountService := service.NewAccountService(db, nil, "", logger)
	categoryService := service.NewCategoryService(db, nil, logger)
	relationService := service.NewRelationService(db, nil, logger)
	importer := service.NewAccountImporter(db, excelService, nil, nil, cfg.ExportPath, logger)
	importService := service.NewImportService(nil, nil, importer, logger)

	accounts := NewAccountHandler(accountService, categoryService, excelService, importService, cfg)
	categories := NewCategoryHandler(categoryService, relationService)

	app := fiber.New()
	app.Get("/accounts", accounts.GetAccounts)
	app.Get("/accounts/export", accounts.ExportAccounts)
	app.Get("/accounts/template", accounts.DownloadTemplate)
	app.Post("/accounts/import", accounts.ImportAccounts)
	app.Get("/accounts/import/:job_id", accounts.GetImportStatus)
	app.Get("/accounts/error-report/:filename", accounts.DownloadErrorReport)
	app.Post("/accounts/save", accounts.SaveAccount)
	app.Get("/accounts/:id", accounts.GetAccount)
	app.Post("/accounts", accounts.CreateAccount)
	app.Put("/accounts/:id", accounts.UpdateAccount)
	app.Patch("/accounts/:id/like", accounts.LikeAccount)
	app.Put("/accounts/:id/categories", accounts.SetAccountCategories)
	app.Delete("/accounts/:id", accounts.DeleteAccount)

	app.Get("/categories", categories.GetCategories)
	app.Get("/categories/:id", categories.GetCategory)
	app.Post("/categories", categories.CreateCategory)
	app.Put("/categories/:id", categories.UpdateCategory)
	app.Delete("/categories/:id", categories.DeleteCategory)
	app.Put("/categories/:id/accounts/:account_id", categories.AddAccount)
	app.Delete("/categories/:id/accounts/:account_id", categories.RemoveAccount)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
