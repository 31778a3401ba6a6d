package service

import (
	"account-organizer/internal/models"
	"account-organizer/internal/relation"
	"account-organizer/internal/repository"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
)

// relationWriter is the only place that writes account_categories. Every
// change is applied to the in-memory records through package relation and to
// the store in the same call, so both id lists always describe the same rows.
type relationWriter struct {
	accounts   *repository.AccountRepository
	categories *repository.CategoryRepository
	links      *repository.AccountCategoryRepository
}

func newRelationWriter(q sqlx.Ext) relationWriter {
	return relationWriter{
		accounts:   repository.NewAccountRepository(q),
		categories: repository.NewCategoryRepository(q),
		links:      repository.NewAccountCategoryRepository(q),
	}
}

func (w relationWriter) associate(a *models.Account, c *models.Category) error {
	if err := relation.Associate(a, c); err != nil {
		return err
	}
	_, err := w.links.Link(*a.ID, *c.ID)
	return err
}

func (w relationWriter) dissociate(a *models.Account, c *models.Category) error {
	if err := relation.Dissociate(a, c); err != nil {
		return err
	}
	_, err := w.links.Unlink(*a.ID, *c.ID)
	return err
}

// replaceCategories makes categoryIDs the complete category list of a.
// Unknown category ids fail the whole call with ErrNotFound.
func (w relationWriter) replaceCategories(a *models.Account, categoryIDs []int) (bool, error) {
	desired := dedupe(categoryIDs)

	categories, err := w.categories.FindByIDs(desired)
	if err != nil {
		return false, err
	}
	if len(categories) != len(desired) {
		found := make([]int, 0, len(categories))
		for _, c := range categories {
			found = append(found, *c.ID)
		}
		missing := slices.DeleteFunc(slices.Clone(desired), func(id int) bool { return slices.Contains(found, id) })
		return false, fmt.Errorf("categories %v: %w", missing, models.ErrNotFound)
	}

	changed := false
	for _, id := range slices.Clone(a.AccountCategoryIDs) {
		if slices.Contains(desired, id) {
			continue
		}
		stale := models.NewCategory(models.IntPtr(id), "")
		if err := w.dissociate(a, &stale); err != nil {
			return false, err
		}
		changed = true
	}

	byID := make(map[int]*models.Category, len(categories))
	for i := range categories {
		byID[*categories[i].ID] = &categories[i]
	}
	for _, id := range desired {
		if slices.Contains(a.AccountCategoryIDs, id) {
			continue
		}
		if err := w.associate(a, byID[id]); err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}

func (w relationWriter) hydrateAccounts(accounts []models.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	ids := make([]int, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, *a.ID)
	}
	grouped, err := w.links.CategoryIDsByAccount(ids)
	if err != nil {
		return err
	}
	for i := range accounts {
		accounts[i].AccountCategoryIDs = append([]int{}, grouped[*accounts[i].ID]...)
	}
	return nil
}

func (w relationWriter) hydrateCategories(categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]int, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, *c.ID)
	}
	grouped, err := w.links.AccountIDsByCategory(ids)
	if err != nil {
		return err
	}
	for i := range categories {
		categories[i].AccountIDs = append([]int{}, grouped[*categories[i].ID]...)
	}
	return nil
}

func (w relationWriter) loadAccount(id int) (*models.Account, error) {
	account, err := w.accounts.FindByID(id)
	if err != nil {
		return nil, err
	}
	one := []models.Account{*account}
	if err := w.hydrateAccounts(one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (w relationWriter) loadCategory(id int) (*models.Category, error) {
	category, err := w.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	one := []models.Category{*category}
	if err := w.hydrateCategories(one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
