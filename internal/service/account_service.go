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

type AccountService struct {
	db                 *sqlx.DB
	categoryCache      *cache.CategoryCache
	defaultDescription string
	logger             *logrus.Logger
}

func NewAccountService(db *sqlx.DB, categoryCache *cache.CategoryCache, defaultDescription string, logger *logrus.Logger) *AccountService {
	return &AccountService{
		db:                 db,
		categoryCache:      categoryCache,
		defaultDescription: defaultDescription,
		logger:             logger,
	}
}

// List returns one page of accounts and the total number of matches
func (s *AccountService) List(filter models.AccountFilter, limit, offset int) ([]models.Account, int, error) {
	w := newRelationWriter(s.db)
	accounts, total, err := w.accounts.FindAll(filter, limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list accounts")
		return nil, 0, err
	}
	if err := w.hydrateAccounts(accounts); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// All returns every account, used by the export
func (s *AccountService) All() ([]models.Account, error) {
	accounts, _, err := s.List(models.AccountFilter{}, 0, 0)
	return accounts, err
}

func (s *AccountService) Get(id int) (*models.Account, error) {
	return newRelationWriter(s.db).loadAccount(id)
}

// Create inserts a new account and links the requested categories
func (s *AccountService) Create(ctx context.Context, req models.AccountRequest) (*models.Account, error) {
	account := models.NewAccount()
	req.Apply(&account)
	return s.insert(ctx, account, req.AccountCategoryIDs)
}

// Update overwrites an existing account. Categories are replaced only when
// the request carries a category list.
func (s *AccountService) Update(ctx context.Context, id int, req models.AccountRequest) (*models.Account, error) {
	if err := validateAccountName(req.Name); err != nil {
		return nil, err
	}

	var updated *models.Account
	var linksChanged bool
	err := withTx(s.db, func(tx *sqlx.Tx) error {
		w := newRelationWriter(tx)
		account, err := w.loadAccount(id)
		if err != nil {
			return err
		}
		req.Apply(account)
		s.applyDefaultDescription(account)
		if err := w.accounts.Update(account); err != nil {
			return err
		}
		if req.AccountCategoryIDs != nil {
			if linksChanged, err = w.replaceCategories(account, req.AccountCategoryIDs); err != nil {
				return err
			}
		}
		updated = account
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Failed to update account")
		return nil, err
	}

	if linksChanged {
		s.categoryCache.Invalidate(ctx)
	}
	s.logger.WithField("id", id).Info("Account updated")
	return updated, nil
}

// Save persists a complete account record: it is inserted when it has no id
// yet and updated otherwise. The record's category list is authoritative.
func (s *AccountService) Save(ctx context.Context, account models.Account) (*models.Account, error) {
	if account.ID == nil {
		return s.insert(ctx, account, account.AccountCategoryIDs)
	}

	sequence := account.Sequence
	categoryIDs := account.AccountCategoryIDs
	if categoryIDs == nil {
		categoryIDs = []int{}
	}
	return s.Update(ctx, *account.ID, models.AccountRequest{
		Name:               account.Name,
		Username:           account.Username,
		Password:           account.Password,
		Sequence:           &sequence,
		Liked:              account.Liked,
		Description:        account.Description,
		AccountCategoryIDs: categoryIDs,
	})
}

func (s *AccountService) insert(ctx context.Context, account models.Account, categoryIDs []int) (*models.Account, error) {
	if err := validateAccountName(account.Name); err != nil {
		return nil, err
	}
	s.applyDefaultDescription(&account)
	account.AccountCategoryIDs = []int{}

	var linksChanged bool
	err := withTx(s.db, func(tx *sqlx.Tx) error {
		w := newRelationWriter(tx)
		if err := w.accounts.Create(&account); err != nil {
			return err
		}
		var err error
		linksChanged, err = w.replaceCategories(&account, categoryIDs)
		return err
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to create account")
		return nil, err
	}

	if linksChanged {
		s.categoryCache.Invalidate(ctx)
	}
	s.logger.WithField("id", *account.ID).Info("Account created")
	return &account, nil
}

func (s *AccountService) SetLiked(id int, liked bool) (*models.Account, error) {
	w := newRelationWriter(s.db)
	if _, err := w.accounts.FindByID(id); err != nil {
		return nil, err
	}
	if err := w.accounts.UpdateLike(id, liked); err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Failed to update like")
		return nil, err
	}
	return w.loadAccount(id)
}

// SetCategories replaces the account's categories with categoryIDs
func (s *AccountService) SetCategories(ctx context.Context, id int, categoryIDs []int) (*models.Account, error) {
	var updated *models.Account
	var linksChanged bool
	err := withTx(s.db, func(tx *sqlx.Tx) error {
		w := newRelationWriter(tx)
		account, err := w.loadAccount(id)
		if err != nil {
			return err
		}
		if linksChanged, err = w.replaceCategories(account, categoryIDs); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	if linksChanged {
		s.categoryCache.Invalidate(ctx)
	}
	return updated, nil
}

// Delete removes the account together with its relation rows
func (s *AccountService) Delete(ctx context.Context, id int) error {
	err := withTx(s.db, func(tx *sqlx.Tx) error {
		if err := repository.NewAccountCategoryRepository(tx).DeleteByAccount(id); err != nil {
			return err
		}
		return repository.NewAccountRepository(tx).Delete(id)
	})
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Failed to delete account")
		return err
	}

	s.categoryCache.Invalidate(ctx)
	s.logger.WithField("id", id).Info("Account deleted")
	return nil
}

func (s *AccountService) applyDefaultDescription(account *models.Account) {
	if s.defaultDescription == "" {
		return
	}
	if account.Description == nil || strings.TrimSpace(*account.Description) == "" {
		account.Description = models.StringPtr(s.defaultDescription)
	}
}

func validateAccountName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: account name is required", models.ErrInvalidArgument)
	}
	return nil
}
