package models

// Account is a tracked login entry. ID and LastUpdateTime are assigned by the
// store; Show is a UI toggle and never persisted.
type Account struct {
	ID                 *int    `db:"id" json:"id"`
	Name               string  `db:"name" json:"name"`
	Username           string  `db:"username" json:"username"`
	Password           string  `db:"password" json:"password"`
	Sequence           int     `db:"sequence" json:"sequence"`
	Liked              bool    `db:"liked" json:"liked"`
	Description        *string `db:"description" json:"description"`
	LastUpdateTime     *string `db:"last_update_time" json:"last_update_time"`
	Show               bool    `db:"-" json:"show"`
	AccountCategoryIDs []int   `db:"-" json:"account_category_ids"`
}

// NewAccount returns an unpersisted account with default values.
func NewAccount() Account {
	return Account{
		Sequence:           1,
		AccountCategoryIDs: []int{},
	}
}

// AccountRequest is the body of create and update calls. A nil
// AccountCategoryIDs leaves the account's categories untouched on update.
type AccountRequest struct {
	Name               string  `json:"name"`
	Username           string  `json:"username"`
	Password           string  `json:"password"`
	Sequence           *int    `json:"sequence"`
	Liked              bool    `json:"liked"`
	Description        *string `json:"description"`
	AccountCategoryIDs []int   `json:"account_category_ids"`
}

// Apply copies the request fields onto a.
func (r AccountRequest) Apply(a *Account) {
	a.Name = r.Name
	a.Username = r.Username
	a.Password = r.Password
	if r.Sequence != nil {
		a.Sequence = *r.Sequence
	}
	a.Liked = r.Liked
	a.Description = r.Description
}

type LikeRequest struct {
	Liked bool `json:"liked"`
}

type AccountCategoriesRequest struct {
	CategoryIDs []int `json:"category_ids"`
}

// AccountFilter narrows account listings. Name and Username are OR'ed together,
// Search matches either column.
type AccountFilter struct {
	Name       string
	Username   string
	Search     string
	Liked      *bool
	CategoryID *int
}
