package handler

import (
	"account-organizer/internal/models"
	"account-organizer/internal/service"
	"account-organizer/internal/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	relationService *service.RelationService
}

func NewCategoryHandler(categoryService *service.CategoryService, relationService *service.RelationService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		relationService: relationService,
	}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.Context())
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to retrieve categories", err)
	}

	return utils.SuccessResponse(c, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", err)
	}

	category, err := h.categoryService.Get(id)
	if err != nil {
		return utils.DomainErrorResponse(c, "Category not found", err)
	}

	return utils.SuccessResponse(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req models.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	category, err := h.categoryService.Create(c.Context(), req)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to create category", err)
	}

	return utils.CreatedResponse(c, "Category created successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", err)
	}

	var req models.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	category, err := h.categoryService.Update(c.Context(), id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to update category", err)
	}

	return utils.SuccessResponse(c, "Category updated successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", err)
	}

	if err := h.categoryService.Delete(c.Context(), id); err != nil {
		return utils.DomainErrorResponse(c, "Failed to delete category", err)
	}

	return utils.SuccessResponse(c, "Category deleted successfully", nil)
}

func (h *CategoryHandler) AddAccount(c *fiber.Ctx) error {
	categoryID, accountID, err := pairParams(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category or account ID", err)
	}

	account, category, err := h.relationService.Associate(c.Context(), accountID, categoryID)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to link account", err)
	}

	return utils.SuccessResponse(c, "Account linked successfully", fiber.Map{
		"account":  account,
		"category": category,
	})
}

func (h *CategoryHandler) RemoveAccount(c *fiber.Ctx) error {
	categoryID, accountID, err := pairParams(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category or account ID", err)
	}

	account, category, err := h.relationService.Dissociate(c.Context(), accountID, categoryID)
	if err != nil {
		return utils.DomainErrorResponse(c, "Failed to unlink account", err)
	}

	return utils.SuccessResponse(c, "Account unlinked successfully", fiber.Map{
		"account":  account,
		"category": category,
	})
}

func pairParams(c *fiber.Ctx) (categoryID, accountID int, err error) {
	if categoryID, err = strconv.Atoi(c.Params("id")); err != nil {
		return 0, 0, err
	}
	if accountID, err = strconv.Atoi(c.Params("account_id")); err != nil {
		return 0, 0, err
	}
	return categoryID, accountID, nil
}
