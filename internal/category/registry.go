// Package category manages the global expense and income category lists.
package category

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

// ProtectedLabel is the category callers must not delete.
const ProtectedLabel = "Other"

// Registry reads and writes the categories key.
type Registry struct {
	store store.Store
	mu    sync.Mutex
}

// New returns a registry over s.
func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// Get returns both lists, seeding and persisting the defaults on first use.
func (r *Registry) Get() (model.Categories, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Add appends label to the list for kind. It returns false without writing
// when the label is already present.
func (r *Registry) Add(kind model.Kind, label string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cats, err := r.load()
	if err != nil {
		return false, err
	}
	if cats.Contains(kind, label) {
		return false, nil
	}

	labels := append(append([]string(nil), cats.For(kind)...), label)
	if err := store.Save(r.store, store.KeyCategories, cats.With(kind, labels)); err != nil {
		return false, err
	}
	log.Debug().Str("kind", string(kind)).Str("label", label).Msg("category added")
	return true, nil
}

// Delete removes label from the list for kind. It returns false when the label
// is absent. Protected labels are not refused here; see Protected.
func (r *Registry) Delete(kind model.Kind, label string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cats, err := r.load()
	if err != nil {
		return false, err
	}

	current := cats.For(kind)
	labels := make([]string, 0, len(current))
	for _, l := range current {
		if l != label {
			labels = append(labels, l)
		}
	}
	if len(labels) == len(current) {
		return false, nil
	}

	if err := store.Save(r.store, store.KeyCategories, cats.With(kind, labels)); err != nil {
		return false, err
	}
	log.Debug().Str("kind", string(kind)).Str("label", label).Msg("category deleted")
	return true, nil
}

func (r *Registry) load() (model.Categories, error) {
	cats, ok, err := store.Load[model.Categories](r.store, store.KeyCategories)
	if err != nil {
		return model.Categories{}, fmt.Errorf("loading categories: %w", err)
	}
	if ok {
		return cats, nil
	}

	cats = model.DefaultCategories()
	if err := store.Save(r.store, store.KeyCategories, cats); err != nil {
		return model.Categories{}, err
	}
	return cats, nil
}

// Protected reports whether callers should refuse to delete label.
func Protected(label string) bool {
	return label == ProtectedLabel
}

// BudgetOptions returns the categories a budget can target: Overall followed by
// the expense categories, without duplicates.
func BudgetOptions(cats model.Categories) []string {
	seen := map[string]bool{model.OverallCategory: true}
	out := []string{model.OverallCategory}
	for _, c := range cats.Expense {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
