package service

import (
	"account-organizer/internal/models"
	"account-organizer/internal/relation"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountImporter_ImportCreatesAccountsAndCategories(t *testing.T) {
	f := newFixture(t)
	existing := f.category(t, "work")
	importer := NewAccountImporter(f.db, NewExcelService(), nil, nil, "", nullLogger())

	path := writeWorkbook(t, [][]interface{}{
		importHeader(),
		{"github", "octo", "pw", 2, "yes", "code", "work, dev"},
		{"mail", "me", "", "", "", "", "dev"},
	})

	result, err := importer.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ValidCount)

	accounts, err := f.accounts.All()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "mail", accounts[0].Name)
	assert.Equal(t, "github", accounts[1].Name)

	categories, err := f.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	byName := map[string]models.Category{}
	for _, c := range categories {
		byName[c.Name] = c
	}
	assert.Equal(t, *existing.ID, *byName["work"].ID)
	assert.Len(t, byName["work"].AccountIDs, 1)
	assert.Len(t, byName["dev"].AccountIDs, 2)
	assert.Empty(t, relation.Consistent(accounts, categories))
}

func TestAccountImporter_RunRecordsResult(t *testing.T) {
	f := newFixture(t)
	reportDir := t.TempDir()
	importer := NewAccountImporter(f.db, NewExcelService(), nil, nil, reportDir, nullLogger())

	path := writeWorkbook(t, [][]interface{}{
		importHeader(),
		{"github"},
		{"", "nameless"},
	})

	job, err := importer.Run(context.Background(), models.ImportJob{JobID: "job-1", FilePath: path})
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusCompleted, job.Status)
	assert.Equal(t, 2, job.TotalRows)
	assert.Equal(t, 1, job.Imported)
	assert.Equal(t, 1, job.ErrorCount)
	assert.Equal(t, "import-errors-job-1.xlsx", job.ErrorFile)
	assert.FileExists(t, filepath.Join(reportDir, job.ErrorFile))
}

func TestAccountImporter_RunFailsOnUnreadableFile(t *testing.T) {
	f := newFixture(t)
	importer := NewAccountImporter(f.db, NewExcelService(), nil, nil, "", nullLogger())

	job, err := importer.Run(context.Background(), models.ImportJob{JobID: "job-2", FilePath: filepath.Join(t.TempDir(), "nope.xlsx")})
	require.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Equal(t, models.ImportStatusFailed, job.Status)
	assert.NotEmpty(t, job.Message)
}

func TestImportService_RunsInlineWithoutQueue(t *testing.T) {
	f := newFixture(t)
	importer := NewAccountImporter(f.db, NewExcelService(), nil, nil, "", nullLogger())
	svc := NewImportService(nil, nil, importer, nullLogger())

	path := writeWorkbook(t, [][]interface{}{importHeader(), {"github"}})

	job, err := svc.Enqueue(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, models.ImportStatusCompleted, job.Status)
	assert.Equal(t, 1, job.Imported)

	_, err = svc.Status(context.Background(), job.JobID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestImportService_InlineFailureRemovesUpload(t *testing.T) {
	f := newFixture(t)
	importer := NewAccountImporter(f.db, NewExcelService(), nil, nil, "", nullLogger())
	svc := NewImportService(nil, nil, importer, nullLogger())

	path := writeWorkbook(t, [][]interface{}{importHeader(), {"github"}})
	require.NoError(t, f.db.Close())

	job, err := svc.Enqueue(context.Background(), path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrInvalidArgument)
	require.NotNil(t, job)
	assert.Equal(t, models.ImportStatusFailed, job.Status)
	assert.NoFileExists(t, path)
}
