package router

import (
	"account-organizer/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Setup registers every route. redis may be nil, in which case caching is
// skipped and imports run inside the request.
func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
			"redis":  redis != nil,
		})
	})

	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redis, cfg)
}
