package repository

import (
	"account-organizer/internal/models"
	"account-organizer/internal/utils"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const accountColumns = `a.id,
		       a.name,
		       a.username,
		       a.password,
		       a.sequence,
		       a.liked,
		       a.description,
		       a.last_update_time`

type AccountRepository struct {
	db sqlx.Ext
}

// NewAccountRepository binds the repository to a *sqlx.DB or a *sqlx.Tx.
func NewAccountRepository(db sqlx.Ext) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindAll returns one page of accounts matching filter together with the
// total number of matches. A limit <= 0 returns every match.
func (r *AccountRepository) FindAll(filter models.AccountFilter, limit, offset int) ([]models.Account, int, error) {
	whereClause, args := accountWhere(filter)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM accounts a %s", whereClause)
	if err := sqlx.Get(r.db, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts a %s
		ORDER BY a.sequence, a.id`, accountColumns, whereClause)
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	accounts := []models.Account{}
	if err := sqlx.Select(r.db, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("select accounts: %w", err)
	}
	initAccounts(accounts)

	return accounts, total, nil
}

// GetAll returns every account in display order.
func (r *AccountRepository) GetAll() ([]models.Account, error) {
	accounts, _, err := r.FindAll(models.AccountFilter{}, 0, 0)
	return accounts, err
}

func (r *AccountRepository) FindByID(id int) (*models.Account, error) {
	var account models.Account
	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts a
		WHERE a.id = ?
		LIMIT 1`, accountColumns)
	if err := sqlx.Get(r.db, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("find account %d: %w", id, err)
	}
	account.AccountCategoryIDs = []int{}
	return &account, nil
}

// Create inserts account as given and assigns its ID and LastUpdateTime.
func (r *AccountRepository) Create(account *models.Account) error {
	now := utils.Timestamp()
	account.LastUpdateTime = &now

	query := `INSERT INTO accounts (name, username, password, sequence, liked, description, last_update_time)
	          VALUES (:name, :username, :password, :sequence, :liked, :description, :last_update_time)`
	result, err := sqlx.NamedExec(r.db, query, account)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert account id: %w", err)
	}
	account.ID = models.IntPtr(int(id))
	if account.AccountCategoryIDs == nil {
		account.AccountCategoryIDs = []int{}
	}
	return nil
}

func (r *AccountRepository) Update(account *models.Account) error {
	if account.ID == nil {
		return fmt.Errorf("update account: %w: missing id", models.ErrInvalidArgument)
	}
	now := utils.Timestamp()
	account.LastUpdateTime = &now

	query := `UPDATE accounts SET name = :name, username = :username, password = :password,
	          sequence = :sequence, liked = :liked, description = :description,
	          last_update_time = :last_update_time
	          WHERE id = :id`
	if _, err := sqlx.NamedExec(r.db, query, account); err != nil {
		return fmt.Errorf("update account %d: %w", *account.ID, err)
	}
	return nil
}

func (r *AccountRepository) UpdateLike(id int, liked bool) error {
	query := "UPDATE accounts SET liked = ?, last_update_time = ? WHERE id = ?"
	if _, err := r.db.Exec(query, liked, utils.Timestamp(), id); err != nil {
		return fmt.Errorf("update like %d: %w", id, err)
	}
	return nil
}

func (r *AccountRepository) Delete(id int) error {
	result, err := r.db.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	return expectAffected(result, fmt.Sprintf("account %d", id))
}

// BulkInsert creates every account in order, assigning IDs in place.
func (r *AccountRepository) BulkInsert(accounts []models.Account) error {
	for i := range accounts {
		if err := r.Create(&accounts[i]); err != nil {
			return err
		}
	}
	return nil
}

func accountWhere(f models.AccountFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	var match []string
	if f.Name != "" {
		match = append(match, "a.name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.Username != "" {
		match = append(match, "a.username LIKE ?")
		args = append(args, "%"+f.Username+"%")
	}
	if len(match) > 0 {
		conds = append(conds, "("+strings.Join(match, " OR ")+")")
	}

	if f.Search != "" {
		conds = append(conds, "(a.name LIKE ? OR a.username LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	if f.Liked != nil {
		conds = append(conds, "a.liked = ?")
		args = append(args, *f.Liked)
	}

	if f.CategoryID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM account_categories ac WHERE ac.account_id = a.id AND ac.category_id = ?)")
		args = append(args, *f.CategoryID)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func initAccounts(accounts []models.Account) {
	for i := range accounts {
		if accounts[i].AccountCategoryIDs == nil {
			accounts[i].AccountCategoryIDs = []int{}
		}
	}
}

func expectAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return nil
}
