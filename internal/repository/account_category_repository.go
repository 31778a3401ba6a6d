package repository

import (
	"account-organizer/internal/models"
	"account-organizer/internal/utils"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AccountCategoryRepository stores the account/category relation. Each pair
// is stored once; both id lists are read back from the same rows.
type AccountCategoryRepository struct {
	db sqlx.Ext
}

func NewAccountCategoryRepository(db sqlx.Ext) *AccountCategoryRepository {
	return &AccountCategoryRepository{db: db}
}

// Link stores the pair unless it is already present. It reports whether a
// row was inserted. The check and the insert are one statement, so a
// concurrent writer cannot slip in between them.
func (r *AccountCategoryRepository) Link(accountID, categoryID int) (bool, error) {
	query := "INSERT INTO account_categories (account_id, category_id, last_update_time) VALUES (?, ?, ?) " +
		r.ignoreDuplicate()
	result, err := r.db.Exec(query, accountID, categoryID, utils.Timestamp())
	if err != nil {
		return false, fmt.Errorf("link %d/%d: %w", accountID, categoryID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ignoreDuplicate turns an insert that hits the (account_id, category_id)
// unique key into a no-op with zero affected rows.
func (r *AccountCategoryRepository) ignoreDuplicate() string {
	if r.db.DriverName() == "mysql" {
		return "ON DUPLICATE KEY UPDATE account_id = account_id"
	}
	return "ON CONFLICT (account_id, category_id) DO NOTHING"
}

// Unlink removes the pair. It reports whether a row was removed.
func (r *AccountCategoryRepository) Unlink(accountID, categoryID int) (bool, error) {
	result, err := r.db.Exec("DELETE FROM account_categories WHERE account_id = ? AND category_id = ?", accountID, categoryID)
	if err != nil {
		return false, fmt.Errorf("unlink %d/%d: %w", accountID, categoryID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CategoryIDsByAccount maps each account id to its category ids in link order.
func (r *AccountCategoryRepository) CategoryIDsByAccount(accountIDs []int) (map[int][]int, error) {
	return r.group("account_id", "category_id", accountIDs)
}

// AccountIDsByCategory maps each category id to its account ids in link order.
func (r *AccountCategoryRepository) AccountIDsByCategory(categoryIDs []int) (map[int][]int, error) {
	return r.group("category_id", "account_id", categoryIDs)
}

func (r *AccountCategoryRepository) DeleteByAccount(accountID int) error {
	if _, err := r.db.Exec("DELETE FROM account_categories WHERE account_id = ?", accountID); err != nil {
		return fmt.Errorf("unlink account %d: %w", accountID, err)
	}
	return nil
}

func (r *AccountCategoryRepository) DeleteByCategory(categoryID int) error {
	if _, err := r.db.Exec("DELETE FROM account_categories WHERE category_id = ?", categoryID); err != nil {
		return fmt.Errorf("unlink category %d: %w", categoryID, err)
	}
	return nil
}

func (r *AccountCategoryRepository) group(keyColumn, valueColumn string, keys []int) (map[int][]int, error) {
	grouped := make(map[int][]int, len(keys))
	if len(keys) == 0 {
		return grouped, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(`
		SELECT id, account_id, category_id, last_update_time
		FROM account_categories
		WHERE %s IN (?)
		ORDER BY id`, keyColumn), keys)
	if err != nil {
		return nil, err
	}

	var links []models.AccountCategory
	if err := sqlx.Select(r.db, &links, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select links by %s: %w", keyColumn, err)
	}

	for _, link := range links {
		key, value := link.AccountID, link.CategoryID
		if valueColumn == "account_id" {
			key, value = link.CategoryID, link.AccountID
		}
		grouped[key] = append(grouped[key], value)
	}
	return grouped, nil
}
