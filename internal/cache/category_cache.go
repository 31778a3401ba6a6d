package cache

import (
	"account-organizer/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// The list is stored under a key that carries the current generation.
// Invalidate bumps the generation, so a fill that read the database before an
// invalidation writes to a key nobody reads any more.
const (
	categoriesKey = "categories:all"
	generationKey = "categories:generation"
)

// CategoryCache holds the hydrated category list. A nil client turns every
// call into a miss or a no-op.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCategoryCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CategoryCache {
	return &CategoryCache{client: client, ttl: ttl, logger: logger}
}

// Generation returns the current cache generation. Callers read it before
// loading from the database and pass it to Get and Set. ok is false when the
// cache cannot be used.
func (c *CategoryCache) Generation(ctx context.Context) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}

	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, true
		}
		c.logger.WithError(err).Warn("category cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (c *CategoryCache) Get(ctx context.Context, gen int64) ([]models.Category, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, categoriesKeyFor(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Warn("category cache read failed")
		}
		return nil, false
	}

	var categories []models.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		c.logger.WithError(err).Warn("category cache entry is corrupt")
		return nil, false
	}
	return categories, true
}

// Set stores categories for generation gen.
func (c *CategoryCache) Set(ctx context.Context, gen int64, categories []models.Category) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		c.logger.WithError(err).Warn("category cache encode failed")
		return
	}
	if err := c.client.Set(ctx, categoriesKeyFor(gen), raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("category cache write failed")
	}
}

func (c *CategoryCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.WithError(err).Warn("category cache invalidate failed")
	}
}

func categoriesKeyFor(gen int64) string {
	return fmt.Sprintf("%s:%d", categoriesKey, gen)
}
