// Package relation keeps the two id lists of the account/category relation in
// step. Callers should never append to Account.AccountCategoryIDs or
// Category.AccountIDs directly.
package relation

import (
	"account-organizer/internal/models"
	"errors"
	"fmt"
	"slices"
)

// ErrUnassignedID is returned when either record has no durable id yet.
var ErrUnassignedID = fmt.Errorf("%w: record has no id", models.ErrInvalidArgument)

// Associate links a and c on both sides. Existing links are left as they are.
func Associate(a *models.Account, c *models.Category) error {
	accountID, categoryID, err := ids(a, c)
	if err != nil {
		return err
	}

	a.AccountCategoryIDs = appendMissing(a.AccountCategoryIDs, categoryID)
	c.AccountIDs = appendMissing(c.AccountIDs, accountID)
	return nil
}

// Dissociate removes the link between a and c on both sides. Removing a link
// that does not exist is a no-op.
func Dissociate(a *models.Account, c *models.Category) error {
	accountID, categoryID, err := ids(a, c)
	if err != nil {
		return err
	}

	a.AccountCategoryIDs = remove(a.AccountCategoryIDs, categoryID)
	c.AccountIDs = remove(c.AccountIDs, accountID)
	return nil
}

// Linked reports whether a and c reference each other.
func Linked(a *models.Account, c *models.Category) bool {
	if a.ID == nil || c.ID == nil {
		return false
	}
	return slices.Contains(a.AccountCategoryIDs, *c.ID) && slices.Contains(c.AccountIDs, *a.ID)
}

// Mismatch is a reference present on only one side of the relation.
type Mismatch struct {
	AccountID  int
	CategoryID int
	// Side names the record that holds the dangling reference: "account" or "category".
	Side string
}

// Consistent returns every one-sided reference between the given records.
// References to records outside the given sets are ignored.
func Consistent(accounts []models.Account, categories []models.Category) []Mismatch {
	accountsByID := make(map[int]models.Account, len(accounts))
	for _, a := range accounts {
		if a.ID != nil {
			accountsByID[*a.ID] = a
		}
	}
	categoriesByID := make(map[int]models.Category, len(categories))
	for _, c := range categories {
		if c.ID != nil {
			categoriesByID[*c.ID] = c
		}
	}

	var mismatches []Mismatch
	for _, a := range accounts {
		if a.ID == nil {
			continue
		}
		for _, categoryID := range a.AccountCategoryIDs {
			c, ok := categoriesByID[categoryID]
			if ok && !slices.Contains(c.AccountIDs, *a.ID) {
				mismatches = append(mismatches, Mismatch{AccountID: *a.ID, CategoryID: categoryID, Side: "account"})
			}
		}
	}
	for _, c := range categories {
		if c.ID == nil {
			continue
		}
		for _, accountID := range c.AccountIDs {
			a, ok := accountsByID[accountID]
			if ok && !slices.Contains(a.AccountCategoryIDs, *c.ID) {
				mismatches = append(mismatches, Mismatch{AccountID: accountID, CategoryID: *c.ID, Side: "category"})
			}
		}
	}
	return mismatches
}

func ids(a *models.Account, c *models.Category) (int, int, error) {
	if a == nil || c == nil {
		return 0, 0, errors.Join(ErrUnassignedID, errors.New("nil record"))
	}
	if a.ID == nil || c.ID == nil {
		return 0, 0, ErrUnassignedID
	}
	return *a.ID, *c.ID, nil
}

// appendMissing and remove never write into the caller's backing array, since
// copies of a record may share it.
func appendMissing(list []int, id int) []int {
	if slices.Contains(list, id) {
		return list
	}
	return append(slices.Clip(list), id)
}

func remove(list []int, id int) []int {
	if list == nil {
		return []int{}
	}
	return slices.DeleteFunc(slices.Clone(list), func(v int) bool { return v == id })
}
