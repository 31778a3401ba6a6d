package repository

import (
	"account-organizer/internal/models"
	"account-organizer/internal/utils"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db sqlx.Ext
}

func NewUserRepository(db sqlx.Ext) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	return r.findOne("username = ?", username)
}

func (r *UserRepository) FindByID(id int) (*models.User, error) {
	return r.findOne("id = ?", id)
}

func (r *UserRepository) findOne(where string, arg interface{}) (*models.User, error) {
	var user models.User
	query := "SELECT id, name, username, password_hash, is_active, created_at FROM users WHERE " + where + " LIMIT 1"
	if err := sqlx.Get(r.db, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Count() (int, error) {
	var total int
	if err := sqlx.Get(r.db, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *UserRepository) Create(user *models.User) error {
	user.CreatedAt = utils.Timestamp()
	query := `INSERT INTO users (name, username, password_hash, is_active, created_at)
	          VALUES (:name, :username, :password_hash, :is_active, :created_at)`
	result, err := sqlx.NamedExec(r.db, query, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user id: %w", err)
	}
	user.ID = int(id)
	return nil
}
