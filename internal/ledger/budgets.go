package ledger

import (
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

// Budgets is the owner-scoped budget ledger.
type Budgets struct {
	recs scoped[model.Budget]
	opts options
}

// NewBudgets returns the budget ledger stored in s.
func NewBudgets(s store.Store, opts ...Option) *Budgets {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Budgets{
		recs: scoped[model.Budget]{store: s, key: store.KeyBudgets},
		opts: o,
	}
}

// ListForOwner returns owner's budgets in insertion order.
func (l *Budgets) ListForOwner(owner string) ([]model.Budget, error) {
	return l.recs.listFor(owner)
}

// Get returns owner's budget with the given id.
func (l *Budgets) Get(owner, id string) (model.Budget, error) {
	b, ok, err := l.recs.find(owner, id)
	if err != nil {
		return model.Budget{}, err
	}
	if !ok {
		return model.Budget{}, model.NotFound("Budget", id)
	}
	return b, nil
}

// Add validates in and stores it under owner with a fresh id and creation time.
func (l *Budgets) Add(owner string, in model.BudgetInput) (model.Budget, error) {
	if owner == "" {
		return model.Budget{}, model.ErrNotAuthenticated
	}
	if err := in.Validate(); err != nil {
		return model.Budget{}, err
	}

	b := in.Apply(model.Budget{
		ID:        l.opts.newID(),
		UserEmail: owner,
		CreatedAt: l.opts.now().UTC(),
	})
	if err := l.recs.append(b); err != nil {
		return model.Budget{}, err
	}
	log.Debug().Str("owner", owner).Str("id", b.ID).Msg("budget added")
	return b, nil
}

// Update replaces the budget whose id and owner both match. It returns false,
// and writes nothing, when there is no such budget.
func (l *Budgets) Update(owner string, b model.Budget) (bool, error) {
	if owner == "" {
		return false, model.ErrNotAuthenticated
	}
	if err := b.Validate(); err != nil {
		return false, err
	}
	b.UserEmail = owner
	ok, err := l.recs.replace(owner, b)
	if ok && err == nil {
		log.Debug().Str("owner", owner).Str("id", b.ID).Msg("budget updated")
	}
	return ok, err
}

// Delete removes owner's budget with the given id.
func (l *Budgets) Delete(owner, id string) (bool, error) {
	if owner == "" {
		return false, model.ErrNotAuthenticated
	}
	ok, err := l.recs.remove(owner, id)
	if ok && err == nil {
		log.Debug().Str("owner", owner).Str("id", id).Msg("budget deleted")
	}
	return ok, err
}

// Import adds budgets under owner, keeping their ids, and skips any id owner
// already has. Every record is validated before anything is written.
func (l *Budgets) Import(owner string, budgets []model.Budget) (int, error) {
	if owner == "" {
		return 0, model.ErrNotAuthenticated
	}
	prepared := make([]model.Budget, 0, len(budgets))
	for i, b := range budgets {
		if err := b.Validate(); err != nil {
			return 0, model.Validation("Budget %d: %s", i+1, err.Error())
		}
		if b.ID == "" {
			b.ID = l.opts.newID()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = l.opts.now().UTC()
		}
		b.UserEmail = owner
		prepared = append(prepared, b)
	}
	n, err := l.recs.merge(owner, prepared)
	if err == nil {
		log.Debug().Str("owner", owner).Int("added", n).Msg("budgets imported")
	}
	return n, err
}
