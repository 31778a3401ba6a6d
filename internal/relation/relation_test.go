package relation

import (
	"account-organizer/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(accountID, categoryID int) (*models.Account, *models.Category) {
	a := models.NewAccount()
	a.ID = models.IntPtr(accountID)
	c := models.NewCategory(models.IntPtr(categoryID), "Work")
	return &a, &c
}

func TestAssociate_LinksBothSides(t *testing.T) {
	a, c := pair(1, 2)

	require.NoError(t, Associate(a, c))

	assert.Equal(t, []int{2}, a.AccountCategoryIDs)
	assert.Equal(t, []int{1}, c.AccountIDs)
	assert.True(t, Linked(a, c))
}

func TestAssociate_Idempotent(t *testing.T) {
	a, c := pair(1, 2)

	require.NoError(t, Associate(a, c))
	require.NoError(t, Associate(a, c))

	assert.Equal(t, []int{2}, a.AccountCategoryIDs)
	assert.Equal(t, []int{1}, c.AccountIDs)
}

func TestAssociate_RepairsOneSidedLink(t *testing.T) {
	a, c := pair(1, 2)
	a.AccountCategoryIDs = []int{2}

	require.NoError(t, Associate(a, c))

	assert.Equal(t, []int{2}, a.AccountCategoryIDs)
	assert.Equal(t, []int{1}, c.AccountIDs)
}

func TestDissociate_AbsentLinkIsNoop(t *testing.T) {
	a, c := pair(1, 2)

	require.NoError(t, Dissociate(a, c))

	assert.Empty(t, a.AccountCategoryIDs)
	assert.Empty(t, c.AccountIDs)
	assert.NotNil(t, a.AccountCategoryIDs)
}

func TestDissociate_RemovesOnlyThePair(t *testing.T) {
	a, c := pair(1, 2)
	other := models.NewCategory(models.IntPtr(3), "Home")
	third := models.NewCategory(models.IntPtr(4), "Games")

	require.NoError(t, Associate(a, c))
	require.NoError(t, Associate(a, &other))
	require.NoError(t, Associate(a, &third))

	require.NoError(t, Dissociate(a, &other))

	assert.Equal(t, []int{2, 4}, a.AccountCategoryIDs)
	assert.Equal(t, []int{1}, c.AccountIDs)
	assert.Empty(t, other.AccountIDs)
	assert.False(t, Linked(a, &other))
}

func TestDissociate_LeavesCopiesUntouched(t *testing.T) {
	a, middle := pair(1, 3)
	a.AccountCategoryIDs = []int{2, 3, 4}
	middle.AccountIDs = []int{1}
	snapshot := *a

	require.NoError(t, Dissociate(a, middle))

	assert.Equal(t, []int{2, 4}, a.AccountCategoryIDs)
	assert.Equal(t, []int{2, 3, 4}, snapshot.AccountCategoryIDs)
}

func TestAssociate_LeavesCopiesUntouched(t *testing.T) {
	a, c := pair(1, 2)
	backing := make([]int, 1, 4)
	backing[0] = 7
	a.AccountCategoryIDs = backing
	snapshot := *a

	require.NoError(t, Associate(a, c))

	assert.Equal(t, []int{7, 2}, a.AccountCategoryIDs)
	assert.Equal(t, []int{7}, snapshot.AccountCategoryIDs)
	assert.Equal(t, []int{7, 0}, backing[:2], "spare capacity is not written")
}

func TestAssociate_UnassignedID(t *testing.T) {
	a := models.NewAccount()
	c := models.NewCategory(models.IntPtr(2), "Work")

	err := Associate(&a, &c)
	require.ErrorIs(t, err, ErrUnassignedID)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Empty(t, a.AccountCategoryIDs)
	assert.Empty(t, c.AccountIDs)

	assert.ErrorIs(t, Dissociate(&a, nil), ErrUnassignedID)
}

func TestConsistent_ReportsOneSidedReferences(t *testing.T) {
	a1, c1 := pair(1, 10)
	require.NoError(t, Associate(a1, c1))

	a2 := models.NewAccount()
	a2.ID = models.IntPtr(2)
	a2.AccountCategoryIDs = []int{10, 99} // 99 is outside the given set

	c2 := models.NewCategory(models.IntPtr(20), "Home")
	c2.AccountIDs = []int{1}

	got := Consistent([]models.Account{*a1, a2}, []models.Category{*c1, c2})

	assert.ElementsMatch(t, []Mismatch{
		{AccountID: 2, CategoryID: 10, Side: "account"},
		{AccountID: 1, CategoryID: 20, Side: "category"},
	}, got)
}

func TestConsistent_CleanRelation(t *testing.T) {
	a, c := pair(1, 2)
	require.NoError(t, Associate(a, c))

	assert.Empty(t, Consistent([]models.Account{*a}, []models.Category{*c}))
}
