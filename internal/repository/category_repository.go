package repository

import (
	"account-organizer/internal/models"
	"account-organizer/internal/utils"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type CategoryRepository struct {
	db sqlx.Ext
}

func NewCategoryRepository(db sqlx.Ext) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindAll lists categories by sequence, unset sequences last, then by id.
func (r *CategoryRepository) FindAll() ([]models.Category, error) {
	categories := []models.Category{}
	query := `
		SELECT id, name, sequence, last_update_time
		FROM categories
		ORDER BY sequence IS NULL, sequence, id`
	if err := sqlx.Select(r.db, &categories, query); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	initCategories(categories)
	return categories, nil
}

func (r *CategoryRepository) FindByID(id int) (*models.Category, error) {
	var category models.Category
	query := "SELECT id, name, sequence, last_update_time FROM categories WHERE id = ? LIMIT 1"
	if err := sqlx.Get(r.db, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	category.AccountIDs = []int{}
	return &category, nil
}

// FindByName returns the first category with exactly this name.
func (r *CategoryRepository) FindByName(name string) (*models.Category, error) {
	var category models.Category
	query := "SELECT id, name, sequence, last_update_time FROM categories WHERE name = ? ORDER BY id LIMIT 1"
	if err := sqlx.Get(r.db, &category, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	category.AccountIDs = []int{}
	return &category, nil
}

// FindByIDs returns the categories among ids that exist, in list order.
func (r *CategoryRepository) FindByIDs(ids []int) ([]models.Category, error) {
	categories := []models.Category{}
	if len(ids) == 0 {
		return categories, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, sequence, last_update_time
		FROM categories
		WHERE id IN (?)
		ORDER BY sequence IS NULL, sequence, id`, ids)
	if err != nil {
		return nil, err
	}
	if err := sqlx.Select(r.db, &categories, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select categories by id: %w", err)
	}
	initCategories(categories)
	return categories, nil
}

func (r *CategoryRepository) Create(category *models.Category) error {
	now := utils.Timestamp()
	category.LastUpdateTime = &now

	query := `INSERT INTO categories (name, sequence, last_update_time)
	          VALUES (:name, :sequence, :last_update_time)`
	result, err := sqlx.NamedExec(r.db, query, category)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert category id: %w", err)
	}
	category.ID = models.IntPtr(int(id))
	if category.AccountIDs == nil {
		category.AccountIDs = []int{}
	}
	return nil
}

func (r *CategoryRepository) Update(category *models.Category) error {
	if category.ID == nil {
		return fmt.Errorf("update category: %w: missing id", models.ErrInvalidArgument)
	}
	now := utils.Timestamp()
	category.LastUpdateTime = &now

	query := `UPDATE categories SET name = :name, sequence = :sequence, last_update_time = :last_update_time
	          WHERE id = :id`
	if _, err := sqlx.NamedExec(r.db, query, category); err != nil {
		return fmt.Errorf("update category %d: %w", *category.ID, err)
	}
	return nil
}

func (r *CategoryRepository) Delete(id int) error {
	result, err := r.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return expectAffected(result, fmt.Sprintf("category %d", id))
}

func initCategories(categories []models.Category) {
	for i := range categories {
		if categories[i].AccountIDs == nil {
			categories[i].AccountIDs = []int{}
		}
	}
}
