package service

import (
	"account-organizer/internal/cache"
	"account-organizer/internal/models"
	"account-organizer/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const TaskAccountImport = "accounts:import"

type ImportPayload struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
}

// AccountImporter loads a validated workbook into the store. Category names
// that do not exist yet are created.
type AccountImporter struct {
	db            *sqlx.DB
	excel         *ExcelService
	categoryCache *cache.CategoryCache
	progress      *cache.ProgressStore
	reportDir     string
	logger        *logrus.Logger
}

func NewAccountImporter(
	db *sqlx.DB,
	excel *ExcelService,
	categoryCache *cache.CategoryCache,
	progress *cache.ProgressStore,
	reportDir string,
	logger *logrus.Logger,
) *AccountImporter {
	return &AccountImporter{
		db:            db,
		excel:         excel,
		categoryCache: categoryCache,
		progress:      progress,
		reportDir:     reportDir,
		logger:        logger,
	}
}

// Import parses filePath and stores every valid row in a single transaction.
// Rows with validation errors are reported in the result and skipped.
func (i *AccountImporter) Import(ctx context.Context, filePath string) (*models.AccountImportResult, error) {
	result, err := i.excel.ParseAccountsWithValidation(filePath)
	if err != nil {
		return nil, err
	}
	if len(result.ValidRows) == 0 {
		return result, nil
	}

	err = withTx(i.db, func(tx *sqlx.Tx) error {
		w := newRelationWriter(tx)

		accounts := make([]models.Account, len(result.ValidRows))
		for k, row := range result.ValidRows {
			accounts[k] = row.Account
		}
		if err := w.accounts.BulkInsert(accounts); err != nil {
			return err
		}

		resolved := map[string]*models.Category{}
		for k, row := range result.ValidRows {
			for _, name := range row.CategoryNames {
				category, ok := resolved[name]
				if !ok {
					var err error
					if category, err = resolveCategory(w, name); err != nil {
						return fmt.Errorf("row %d: %w", row.Row, err)
					}
					resolved[name] = category
				}
				if err := w.associate(&accounts[k], category); err != nil {
					return fmt.Errorf("row %d: %w", row.Row, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.categoryCache.Invalidate(ctx)
	return result, nil
}

// Run executes job and records its state in the progress store when one is
// available. The returned job is the final state.
func (i *AccountImporter) Run(ctx context.Context, job models.ImportJob) (*models.ImportJob, error) {
	job.Status = models.ImportStatusProcessing
	i.saveProgress(ctx, job)

	log := i.logger.WithField("job_id", job.JobID)
	log.Info("Account import started")

	result, err := i.Import(ctx, job.FilePath)
	if err != nil {
		job.Status = models.ImportStatusFailed
		job.Message = err.Error()
		i.saveProgress(ctx, job)
		log.WithError(err).Error("Account import failed")
		// malformed workbooks are not retried, so the upload can go
		if errors.Is(err, models.ErrInvalidArgument) {
			removeUpload(job.FilePath, log)
		}
		return &job, err
	}
	removeUpload(job.FilePath, log)

	job.Status = models.ImportStatusCompleted
	job.TotalRows = result.TotalRows
	job.Imported = result.ValidCount
	job.ErrorCount = result.ErrorCount
	job.Errors = result.ValidationErrors
	job.Message = fmt.Sprintf("Imported %d of %d rows", result.ValidCount, result.TotalRows)

	if result.ErrorCount > 0 && i.reportDir != "" {
		name := fmt.Sprintf("import-errors-%s.xlsx", job.JobID)
		if err := os.MkdirAll(i.reportDir, 0o755); err == nil {
			if err := i.excel.GenerateImportErrorReport(result, filepath.Join(i.reportDir, name)); err != nil {
				log.WithError(err).Warn("Failed to write import error report")
			} else {
				job.ErrorFile = name
			}
		}
	}

	i.saveProgress(ctx, job)
	log.WithFields(logrus.Fields{
		"imported": job.Imported,
		"errors":   job.ErrorCount,
	}).Info("Account import completed")
	return &job, nil
}

func (i *AccountImporter) saveProgress(ctx context.Context, job models.ImportJob) {
	if !i.progress.Available() {
		return
	}
	job.UpdatedAt = utils.Timestamp()
	if err := i.progress.Save(ctx, job); err != nil {
		i.logger.WithError(err).WithField("job_id", job.JobID).Warn("Failed to save import progress")
	}
}

func removeUpload(path string, log *logrus.Entry) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to remove uploaded file")
	}
}

func resolveCategory(w relationWriter, name string) (*models.Category, error) {
	category, err := w.categories.FindByName(name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	created := models.NewCategory(nil, name)
	if err := w.categories.Create(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ImportService hands uploaded workbooks to the worker. Without a queue the
// import runs inline and the final job state is returned directly.
type ImportService struct {
	client   *asynq.Client
	progress *cache.ProgressStore
	importer *AccountImporter
	logger   *logrus.Logger
}

func NewImportService(client *asynq.Client, progress *cache.ProgressStore, importer *AccountImporter, logger *logrus.Logger) *ImportService {
	return &ImportService{
		client:   client,
		progress: progress,
		importer: importer,
		logger:   logger,
	}
}

func (s *ImportService) Enqueue(ctx context.Context, filePath string) (*models.ImportJob, error) {
	job := models.ImportJob{
		JobID:     uuid.New().String(),
		FilePath:  filePath,
		Status:    models.ImportStatusQueued,
		UpdatedAt: utils.Timestamp(),
	}

	if s.client == nil || !s.progress.Available() {
		done, err := s.importer.Run(ctx, job)
		if err != nil {
			// nothing retries an inline import
			removeUpload(filePath, s.logger.WithField("job_id", job.JobID))
		}
		return done, err
	}

	if err := s.progress.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save import job: %w", err)
	}

	payload, err := json.Marshal(ImportPayload{JobID: job.JobID, FilePath: filePath})
	if err != nil {
		return nil, err
	}
	task := asynq.NewTask(TaskAccountImport, payload, asynq.MaxRetry(3))
	info, err := s.client.EnqueueContext(ctx, task)
	if err != nil {
		s.logger.WithError(err).WithField("job_id", job.JobID).Error("Failed to queue import task")
		return nil, fmt.Errorf("queue import task: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"job_id":  job.JobID,
		"task_id": info.ID,
	}).Info("Account import queued")
	return &job, nil
}

func (s *ImportService) Status(ctx context.Context, jobID string) (*models.ImportJob, error) {
	job, err := s.progress.Get(ctx, jobID)
	if errors.Is(err, cache.ErrUnavailable) {
		return nil, fmt.Errorf("import job %s: %w", jobID, models.ErrNotFound)
	}
	return job, err
}
