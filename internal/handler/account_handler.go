package handler

import (
	"account-organizer/internal/config"
	"account-organizer/internal/models"
	"account-organizer/internal/service"
	"account-organizer/internal/utils"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AccountHandler struct {
	accountService  *service.AccountService
	categoryService *service.CategoryService
	excelService    *service.ExcelService
	importService   *service.ImportService
	cfg             *config.Config
}

func NewAccountHandler(
	accountService *service.AccountService,
	categoryService *service.CategoryService,
	excelService *service.ExcelService,
	importService *service.ImportService,
	cfg *config.Config,
) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		categoryService: categoryService,
		excelService:    excelService,
		importService:   importService,
		cfg:             cfg,
	}
}

func (h *AccountHandler) GetAccounts(c *fiber.Ctx) error {
	filter, err := parseAccountFilter(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter", err)
	}

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	accounts, total, err := h.accountService.List(filter, params.Limit, offset)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to retrieve accounts", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Accounts retrieved successfully", accounts, pagination)
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	account, err := h.accountService.Get(id)
	if err != nil {
		return utils.DomainErrorResponse(c, "Account not found", err)
	}

	return utils.SuccessResponse(c, "Account retrieved successfully", account)
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req models.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	account, err := h.accountService.Create(c.Context(), req)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to create account", err)
	}

	return utils.CreatedResponse(c, "Account created successfully", account)
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	var req models.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	account, err := h.accountService.Update(c.Context(), id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to update account", err)
	}

	return utils.SuccessResponse(c, "Account updated successfully", account)
}

// SaveAccount stores a full account record, inserting it when it has no id
func (h *AccountHandler) SaveAccount(c *fiber.Ctx) error {
	account := models.NewAccount()
	if err := c.BodyParser(&account); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	saved, err := h.accountService.Save(c.Context(), account)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to save account", err)
	}

	return utils.SuccessResponse(c, "Account saved successfully", saved)
}

func (h *AccountHandler) LikeAccount(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	var req models.LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	account, err := h.accountService.SetLiked(id, req.Liked)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to update account", err)
	}

	return utils.SuccessResponse(c, "Account updated successfully", account)
}

func (h *AccountHandler) SetAccountCategories(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	var req models.AccountCategoriesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.CategoryIDs == nil {
		req.CategoryIDs = []int{}
	}

	account, err := h.accountService.SetCategories(c.Context(), id, req.CategoryIDs)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to update account categories", err)
	}

	return utils.SuccessResponse(c, "Account categories updated successfully", account)
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	if err := h.accountService.Delete(c.Context(), id); err != nil {
		return utils.DomainErrorResponse(c, "Failed to delete account", err)
	}

	return utils.SuccessResponse(c, "Account deleted successfully", nil)
}

func (h *AccountHandler) ExportAccounts(c *fiber.Ctx) error {
	accounts, err := h.accountService.All()
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to retrieve accounts", err)
	}

	names, err := h.categoryService.Names(c.Context())
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to retrieve categories", err)
	}

	if err := os.MkdirAll(h.cfg.ExportPath, 0o755); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to prepare export directory", err)
	}

	exportFileName := fmt.Sprintf("accounts_export_%s.xlsx", time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportAccounts(accounts, names, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export accounts", err)
	}

	return c.Download(exportPath, exportFileName)
}

func (h *AccountHandler) DownloadTemplate(c *fiber.Ctx) error {
	if err := os.MkdirAll(h.cfg.ExportPath, 0o755); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to prepare export directory", err)
	}

	templateFileName := "accounts_import_template.xlsx"
	templatePath := filepath.Join(h.cfg.ExportPath, templateFileName)

	if err := h.excelService.GenerateTemplate(templatePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(templatePath, templateFileName)
}

func (h *AccountHandler) ImportAccounts(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".xlsx" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx) are allowed", nil)
	}

	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	if err := os.MkdirAll(h.cfg.UploadPath, 0o755); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to prepare upload directory", err)
	}

	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("import_%s%s", uuid.New().String(), ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	job, err := h.importService.Enqueue(c.Context(), filePath)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to import accounts", err)
	}

	if job.Status == models.ImportStatusQueued {
		return c.Status(fiber.StatusAccepted).JSON(utils.Response{
			Success: true,
			Message: "Import queued",
			Data:    job,
		})
	}

	return utils.SuccessResponse(c, job.Message, job)
}

func (h *AccountHandler) GetImportStatus(c *fiber.Ctx) error {
	job, err := h.importService.Status(c.Context(), c.Params("job_id"))
	if err != nil {
		return utils.DomainErrorResponse(c, "Import job not found", err)
	}

	return utils.SuccessResponse(c, "Import status retrieved successfully", job)
}

// DownloadErrorReport downloads an error report file
func (h *AccountHandler) DownloadErrorReport(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if !isValidFilename(filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filename", nil)
	}

	filePath := filepath.Join(h.cfg.ExportPath, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Error report file not found", err)
	}

	return c.Download(filePath, filename)
}

func parseAccountFilter(c *fiber.Ctx) (models.AccountFilter, error) {
	filter := models.AccountFilter{
		Name:     strings.TrimSpace(c.Query("name")),
		Username: strings.TrimSpace(c.Query("username")),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	if raw := c.Query("liked"); raw != "" {
		liked, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("liked: %w", err)
		}
		filter.Liked = &liked
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("category_id: %w", err)
		}
		filter.CategoryID = &id
	}

	return filter, nil
}

// isValidFilename validates filename to prevent directory traversal
func isValidFilename(filename string) bool {
	if len(filename) == 0 || len(filename) > 255 {
		return false
	}

	dangerousChars := []string{"..", "/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range dangerousChars {
		if strings.Contains(filename, char) {
			return false
		}
	}

	return strings.HasPrefix(filename, "import-errors-") && strings.HasSuffix(filename, ".xlsx")
}
