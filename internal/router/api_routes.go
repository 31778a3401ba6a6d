package router

import (
	"account-organizer/internal/cache"
	"account-organizer/internal/config"
	"account-organizer/internal/handler"
	"account-organizer/internal/middleware"
	"account-organizer/internal/service"
	"account-organizer/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	logger := utils.GetLogger()

	// Caches are no-ops without redis
	categoryCache := cache.NewCategoryCache(redis, cfg.CacheTTL, logger)
	progressStore := cache.NewProgressStore(redis)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	// Initialize services
	authService := service.NewAuthService(db, cfg)
	excelService := service.NewExcelService()
	accountService := service.NewAccountService(db, categoryCache, cfg.AccountDefaultDescription, logger)
	categoryService := service.NewCategoryService(db, categoryCache, logger)
	relationService := service.NewRelationService(db, categoryCache, logger)
	importer := service.NewAccountImporter(db, excelService, categoryCache, progressStore, cfg.ExportPath, logger)
	importService := service.NewImportService(asynqClient, progressStore, importer, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService, categoryService, excelService, importService, cfg)
	categoryHandler := handler.NewCategoryHandler(categoryService, relationService)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.Get("/", accountHandler.GetAccounts)
	accounts.Get("/export", accountHandler.ExportAccounts)
	accounts.Get("/template", accountHandler.DownloadTemplate)
	accounts.Post("/import", accountHandler.ImportAccounts)
	accounts.Get("/import/:job_id", accountHandler.GetImportStatus)
	accounts.Get("/error-report/:filename", accountHandler.DownloadErrorReport)
	accounts.Post("/save", accountHandler.SaveAccount)
	accounts.Get("/:id", accountHandler.GetAccount)
	accounts.Post("/", accountHandler.CreateAccount)
	accounts.Put("/:id", accountHandler.UpdateAccount)
	accounts.Patch("/:id/like", accountHandler.LikeAccount)
	accounts.Put("/:id/categories", accountHandler.SetAccountCategories)
	accounts.Delete("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.GetCategories)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Put("/:id", categoryHandler.UpdateCategory)
	categories.Delete("/:id", categoryHandler.DeleteCategory)
	categories.Put("/:id/accounts/:account_id", categoryHandler.AddAccount)
	categories.Delete("/:id/accounts/:account_id", categoryHandler.RemoveAccount)
}
