package worker

import (
	"account-organizer/internal/config"
	"account-organizer/internal/service"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	importHandler := NewImportTaskHandler(db, redis, cfg)
	mux.HandleFunc(service.TaskAccountImport, importHandler.Handle)
}
