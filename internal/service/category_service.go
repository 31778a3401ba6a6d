package service

import (
	"account-organizer/internal/cache"
	"account-organizer/internal/models"
	"account-organizer/internal/repository"
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type CategoryService struct {
	db     *sqlx.DB
	cache  *cache.CategoryCache
	logger *logrus.Logger
}

func NewCategoryService(db *sqlx.DB, categoryCache *cache.CategoryCache, logger *logrus.Logger) *CategoryService {
	return &CategoryService{db: db, cache: categoryCache, logger: logger}
}

// List returns all categories with their account ids, served from the cache
// when possible
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	gen, cacheable := s.cache.Generation(ctx)
	if cacheable {
		if categories, ok := s.cache.Get(ctx, gen); ok {
			return categories, nil
		}
	}

	w := newRelationWriter(s.db)
	categories, err := w.categories.FindAll()
	if err != nil {
		s.logger.WithError(err).Error("Failed to list categories")
		return nil, err
	}
	if err := w.hydrateCategories(categories); err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.Set(ctx, gen, categories)
	}
	return categories, nil
}

func (s *CategoryService) Get(id int) (*models.Category, error) {
	return newRelationWriter(s.db).loadCategory(id)
}

func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	if err := validateCategoryName(req.Name); err != nil {
		return nil, err
	}

	category := models.NewCategory(nil, strings.TrimSpace(req.Name))
	category.Sequence = req.Sequence
	if err := repository.NewCategoryRepository(s.db).Create(&category); err != nil {
		s.logger.WithError(err).Error("Failed to create category")
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.logger.WithField("id", *category.ID).Info("Category created")
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int, req models.CategoryRequest) (*models.Category, error) {
	if err := validateCategoryName(req.Name); err != nil {
		return nil, err
	}

	w := newRelationWriter(s.db)
	category, err := w.loadCategory(id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(req.Name)
	category.Sequence = req.Sequence
	if err := w.categories.Update(category); err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Failed to update category")
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return category, nil
}

// Delete removes the category together with its relation rows
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	err := withTx(s.db, func(tx *sqlx.Tx) error {
		if err := repository.NewAccountCategoryRepository(tx).DeleteByCategory(id); err != nil {
			return err
		}
		return repository.NewCategoryRepository(tx).Delete(id)
	})
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Failed to delete category")
		return err
	}

	s.cache.Invalidate(ctx)
	s.logger.WithField("id", id).Info("Category deleted")
	return nil
}

// Names maps category ids to names
func (s *CategoryService) Names(ctx context.Context) (map[int]string, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[*c.ID] = c.Name
	}
	return names, nil
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name is required", models.ErrInvalidArgument)
	}
	return nil
}
