package handler

import (
	"account-organizer/internal/models"
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func createAccount(t *testing.T, app *fiber.App, body fiber.Map) models.Account {
	t.Helper()
	status, env := doJSON(t, app, "POST", "/accounts", body)
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	return decode[models.Account](t, env.Data)
}

func createCategory(t *testing.T, app *fiber.App, name string) models.Category {
	t.Helper()
	status, env := doJSON(t, app, "POST", "/categories", fiber.Map{"name": name})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	return decode[models.Category](t, env.Data)
}

func TestAccountHandler_CreateAndGet(t *testing.T) {
	app := newTestApp(t)
	work := createCategory(t, app, "work")

	created := createAccount(t, app, fiber.Map{"name": "github", "username": "octo", "account_category_ids": []int{*work.ID}})
	require.NotNil(t, created.ID)
	assert.Equal(t, 1, created.Sequence)
	assert.Equal(t, []int{*work.ID}, created.AccountCategoryIDs)

	status, env := doJSON(t, app, "GET", fmt.Sprintf("/accounts/%d", *created.ID), nil)
	assert.Equal(t, fiber.StatusOK, status)
	got := decode[models.Account](t, env.Data)
	assert.Equal(t, "octo", got.Username)
}

func TestAccountHandler_ErrorStatuses(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"missing name", "POST", "/accounts", fiber.Map{"username": "x"}, fiber.StatusBadRequest},
		{"unknown account", "GET", "/accounts/99", nil, fiber.StatusNotFound},
		{"bad id", "GET", "/accounts/abc", nil, fiber.StatusBadRequest},
		{"unknown category", "POST", "/accounts", fiber.Map{"name": "x", "account_category_ids": []int{5}}, fiber.StatusNotFound},
		{"delete unknown", "DELETE", "/accounts/99", nil, fiber.StatusNotFound},
		{"bad liked filter", "GET", "/accounts?liked=perhaps", nil, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
			assert.False(t, env.Success)
		})
	}
}

func TestAccountHandler_ListFiltersAndPaginates(t *testing.T) {
	app := newTestApp(t)
	work := createCategory(t, app, "work")
	createAccount(t, app, fiber.Map{"name": "github", "liked": true, "account_category_ids": []int{*work.ID}})
	createAccount(t, app, fiber.Map{"name": "mail"})
	createAccount(t, app, fiber.Map{"name": "gitlab", "account_category_ids": []int{*work.ID}})

	status, env := doJSON(t, app, "GET", fmt.Sprintf("/accounts?category_id=%d&limit=10", *work.ID), nil)
	require.Equal(t, fiber.StatusOK, status)
	accounts := decode[[]models.Account](t, env.Data)
	assert.Len(t, accounts, 2)
	assert.Equal(t, int64(2), env.Pagination.Total)

	_, env = doJSON(t, app, "GET", "/accounts?liked=true", nil)
	accounts = decode[[]models.Account](t, env.Data)
	require.Len(t, accounts, 1)
	assert.Equal(t, "github", accounts[0].Name)

	_, env = doJSON(t, app, "GET", "/accounts?search=git", nil)
	assert.Len(t, decode[[]models.Account](t, env.Data), 2)
}

func TestAccountHandler_SaveLikeAndCategories(t *testing.T) {
	app := newTestApp(t)
	work := createCategory(t, app, "work")
	home := createCategory(t, app, "home")

	status, env := doJSON(t, app, "POST", "/accounts/save", fiber.Map{"name": "mail", "account_category_ids": []int{*work.ID}})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	saved := decode[models.Account](t, env.Data)
	require.NotNil(t, saved.ID)
	path := fmt.Sprintf("/accounts/%d", *saved.ID)

	status, env = doJSON(t, app, "PATCH", path+"/like", fiber.Map{"liked": true})
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[models.Account](t, env.Data).Liked)

	status, env = doJSON(t, app, "PUT", path+"/categories", fiber.Map{"category_ids": []int{*home.ID}})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []int{*home.ID}, decode[models.Account](t, env.Data).AccountCategoryIDs)

	status, env = doJSON(t, app, "PUT", path, fiber.Map{"name": "webmail", "sequence": 3})
	require.Equal(t, fiber.StatusOK, status)
	updated := decode[models.Account](t, env.Data)
	assert.Equal(t, "webmail", updated.Name)
	assert.Equal(t, 3, updated.Sequence)
	assert.Equal(t, []int{*home.ID}, updated.AccountCategoryIDs)

	status, _ = doJSON(t, app, "DELETE", path, nil)
	assert.Equal(t, fiber.StatusOK, status)

	_, env = doJSON(t, app, "GET", fmt.Sprintf("/categories/%d", *home.ID), nil)
	assert.Empty(t, decode[models.Category](t, env.Data).AccountIDs)
}

func TestAccountHandler_ImportRunsInline(t *testing.T) {
	app := newTestApp(t)

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Name", "Username", "Password", "Sequence", "Liked", "Description", "Categories"},
		{"github", "octo", "pw", 1, "yes", "", "work"},
		{"", "nameless"},
	}
	for r, row := range rows {
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", r+1), &row))
	}
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "accounts.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/accounts/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	job := decode[models.ImportJob](t, env.Data)
	assert.Equal(t, models.ImportStatusCompleted, job.Status)
	assert.Equal(t, 1, job.Imported)
	assert.Equal(t, 1, job.ErrorCount)
	require.NotEmpty(t, job.ErrorFile)

	report, err := app.Test(httptest.NewRequest("GET", "/accounts/error-report/"+job.ErrorFile, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, report.StatusCode)

	_, env = doJSON(t, app, "GET", "/categories", nil)
	categories := decode[[]models.Category](t, env.Data)
	require.Len(t, categories, 1)
	assert.Equal(t, "work", categories[0].Name)
	assert.Len(t, categories[0].AccountIDs, 1)
}

func TestAccountHandler_ImportRejectsWrongExtension(t *testing.T) {
	app := newTestApp(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "accounts.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/accounts/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAccountHandler_ExportAndTemplateDownload(t *testing.T) {
	app := newTestApp(t)
	createAccount(t, app, fiber.Map{"name": "github"})

	for _, path := range []string{"/accounts/export", "/accounts/template"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	}
}

func TestAccountHandler_ImportStatusUnknownJob(t *testing.T) {
	app := newTestApp(t)

	status, env := doJSON(t, app, "GET", "/accounts/import/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestIsValidFilename(t *testing.T) {
	assert.True(t, isValidFilename("import-errors-1234.xlsx"))
	assert.False(t, isValidFilename("../import-errors-1234.xlsx"))
	assert.False(t, isValidFilename("accounts.xlsx"))
	assert.False(t, isValidFilename(""))
}

func TestDownloadErrorReport_Missing(t *testing.T) {
	app := newTestApp(t)
	status, _ := doJSON(t, app, "GET", "/accounts/error-report/import-errors-missing.xlsx", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
