package service

import (
	"account-organizer/internal/cache"
	"account-organizer/internal/models"
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// RelationService links and unlinks single account/category pairs
type RelationService struct {
	db     *sqlx.DB
	cache  *cache.CategoryCache
	logger *logrus.Logger
}

func NewRelationService(db *sqlx.DB, categoryCache *cache.CategoryCache, logger *logrus.Logger) *RelationService {
	return &RelationService{db: db, cache: categoryCache, logger: logger}
}

// Associate links the pair. Linking an already linked pair is a no-op.
func (s *RelationService) Associate(ctx context.Context, accountID, categoryID int) (*models.Account, *models.Category, error) {
	return s.apply(ctx, accountID, categoryID, relationWriter.associate)
}

// Dissociate unlinks the pair. Unlinking a pair that is not linked is a no-op.
func (s *RelationService) Dissociate(ctx context.Context, accountID, categoryID int) (*models.Account, *models.Category, error) {
	return s.apply(ctx, accountID, categoryID, relationWriter.dissociate)
}

func (s *RelationService) apply(
	ctx context.Context,
	accountID, categoryID int,
	op func(relationWriter, *models.Account, *models.Category) error,
) (*models.Account, *models.Category, error) {
	var account *models.Account
	var category *models.Category

	err := withTx(s.db, func(tx *sqlx.Tx) error {
		w := newRelationWriter(tx)
		var err error
		if account, err = w.loadAccount(accountID); err != nil {
			return err
		}
		if category, err = w.loadCategory(categoryID); err != nil {
			return err
		}
		return op(w, account, category)
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"account_id":  accountID,
			"category_id": categoryID,
		}).Error("Failed to update relation")
		return nil, nil, err
	}

	s.cache.Invalidate(ctx)
	return account, category, nil
}
