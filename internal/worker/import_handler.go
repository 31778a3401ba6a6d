package worker

import (
	"account-organizer/internal/cache"
	"account-organizer/internal/config"
	"account-organizer/internal/models"
	"account-organizer/internal/service"
	"account-organizer/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type ImportTaskHandler struct {
	importer *service.AccountImporter
	logger   *logrus.Logger
}

func NewImportTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *ImportTaskHandler {
	logger := utils.GetLogger()
	importer := service.NewAccountImporter(
		db,
		service.NewExcelService(),
		cache.NewCategoryCache(redis, cfg.CacheTTL, logger),
		cache.NewProgressStore(redis),
		cfg.ExportPath,
		logger,
	)
	return &ImportTaskHandler{importer: importer, logger: logger}
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload service.ImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.JobID == "" || payload.FilePath == "" {
		return fmt.Errorf("incomplete import payload: %w", asynq.SkipRetry)
	}

	_, err := h.importer.Run(ctx, models.ImportJob{
		JobID:    payload.JobID,
		FilePath: payload.FilePath,
	})
	if errors.Is(err, models.ErrInvalidArgument) {
		return fmt.Errorf("import %s: %v: %w", payload.JobID, err, asynq.SkipRetry)
	}
	return err
}
