package models

import (
	"cmp"
	"slices"
)

// SortAccounts orders accounts by Sequence. Equal sequences keep their
// current relative order.
func SortAccounts(accounts []Account) {
	slices.SortStableFunc(accounts, func(a, b Account) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
}

// SortCategories orders categories by Sequence with unset sequences last.
func SortCategories(categories []Category) {
	slices.SortStableFunc(categories, func(a, b Category) int {
		switch {
		case a.Sequence == nil && b.Sequence == nil:
			return 0
		case a.Sequence == nil:
			return 1
		case b.Sequence == nil:
			return -1
		}
		return cmp.Compare(*a.Sequence, *b.Sequence)
	})
}
