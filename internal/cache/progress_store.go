package cache

import (
	"account-organizer/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when no redis client is configured.
var ErrUnavailable = errors.New("progress store unavailable")

const progressTTL = 24 * time.Hour

// ProgressStore keeps import job state in redis so the web process can report
// progress written by the worker.
type ProgressStore struct {
	client *redis.Client
}

func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

func progressKey(jobID string) string {
	return fmt.Sprintf("import:progress:%s", jobID)
}

func (s *ProgressStore) Available() bool {
	return s != nil && s.client != nil
}

func (s *ProgressStore) Save(ctx context.Context, job models.ImportJob) error {
	if !s.Available() {
		return ErrUnavailable
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.JobID, err)
	}
	return s.client.Set(ctx, progressKey(job.JobID), raw, progressTTL).Err()
}

func (s *ProgressStore) Get(ctx context.Context, jobID string) (*models.ImportJob, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	raw, err := s.client.Get(ctx, progressKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("import job %s: %w", jobID, models.ErrNotFound)
		}
		return nil, err
	}

	var job models.ImportJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", jobID, err)
	}
	return &job, nil
}
