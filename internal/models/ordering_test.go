package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func accountNames(accounts []Account) []string {
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Name)
	}
	return names
}

func TestSortAccounts_StableOnTies(t *testing.T) {
	accounts := []Account{
		{Name: "c", Sequence: 2},
		{Name: "a", Sequence: 1},
		{Name: "d", Sequence: 2},
		{Name: "b", Sequence: 1},
	}

	SortAccounts(accounts)

	assert.Equal(t, []string{"a", "b", "c", "d"}, accountNames(accounts))
}

func TestSortCategories_UnsetSequenceLast(t *testing.T) {
	categories := []Category{
		NewCategory(IntPtr(1), "none-1"),
		{ID: IntPtr(2), Name: "three", Sequence: IntPtr(3)},
		NewCategory(IntPtr(3), "none-2"),
		{ID: IntPtr(4), Name: "one", Sequence: IntPtr(1)},
	}

	SortCategories(categories)

	var names []string
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"one", "three", "none-1", "none-2"}, names)
}

func TestIntValue(t *testing.T) {
	assert.Equal(t, 0, IntValue(nil))
	assert.Equal(t, 4, IntValue(IntPtr(4)))
}
