package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

func TestGetSeedsDefaults(t *testing.T) {
	s := store.NewMemory()
	r := New(s)

	cats, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategories(), cats)

	_, ok, err := s.Get(store.KeyCategories)
	require.NoError(t, err)
	assert.True(t, ok, "defaults are persisted")
}

func TestGetKeepsStoredLists(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, store.Save(s, store.KeyCategories, model.Categories{Expense: []string{"Rent"}, Income: []string{}}))

	cats, err := New(s).Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rent"}, cats.Expense)
	assert.Empty(t, cats.Income)
}

func TestAddIsIdempotent(t *testing.T) {
	r := New(store.NewMemory())

	added, err := r.Add(model.Expense, "Travel")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = r.Add(model.Expense, "Food")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = r.Add(model.Expense, "Food")
	require.NoError(t, err)
	assert.False(t, added)

	cats, err := r.Get()
	require.NoError(t, err)
	count := 0
	for _, c := range cats.Expense {
		if c == "Food" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "Travel", cats.Expense[len(cats.Expense)-1])
	assert.NotContains(t, cats.Income, "Travel")
}

func TestAddIsExactMatch(t *testing.T) {
	r := New(store.NewMemory())
	added, err := r.Add(model.Income, "salary")
	require.NoError(t, err)
	assert.True(t, added)
}

func TestDelete(t *testing.T) {
	r := New(store.NewMemory())

	removed, err := r.Delete(model.Income, "Gift")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = r.Delete(model.Income, "Gift")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = r.Delete(model.Expense, "Other")
	require.NoError(t, err)
	assert.True(t, removed, "the registry itself does not protect Other")

	cats, err := r.Get()
	require.NoError(t, err)
	assert.NotContains(t, cats.Income, "Gift")
	assert.NotContains(t, cats.Expense, "Other")
	assert.Contains(t, cats.Income, "Other")
}

func TestPolicyHelpers(t *testing.T) {
	assert.True(t, Protected("Other"))
	assert.False(t, Protected("Food"))

	opts := BudgetOptions(model.Categories{Expense: []string{"Food", "Overall", "Food", "Rent"}})
	assert.Equal(t, []string{"Overall", "Food", "Rent"}, opts)
}
