package models

// Category groups accounts. Name is the only field required at construction.
type Category struct {
	ID             *int    `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Sequence       *int    `db:"sequence" json:"sequence"`
	LastUpdateTime *string `db:"last_update_time" json:"last_update_time,omitempty"`
	AccountIDs     []int   `db:"-" json:"account_ids"`
}

func NewCategory(id *int, name string) Category {
	return Category{
		ID:         id,
		Name:       name,
		AccountIDs: []int{},
	}
}

type CategoryRequest struct {
	Name     string `json:"name"`
	Sequence *int   `json:"sequence"`
}

// AccountCategory is one persisted edge of the account/category relation.
type AccountCategory struct {
	ID             int     `db:"id" json:"id"`
	AccountID      int     `db:"account_id" json:"account_id"`
	CategoryID     int     `db:"category_id" json:"category_id"`
	LastUpdateTime *string `db:"last_update_time" json:"last_update_time"`
}
