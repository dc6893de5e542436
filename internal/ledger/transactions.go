package ledger

import (
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

// Transactions is the owner-scoped transaction ledger.
type Transactions struct {
	recs scoped[model.Transaction]
	opts options
}

// NewTransactions returns the transaction ledger stored in s.
func NewTransactions(s store.Store, opts ...Option) *Transactions {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Transactions{
		recs: scoped[model.Transaction]{store: s, key: store.KeyTransactions},
		opts: o,
	}
}

// ListForOwner returns owner's transactions in insertion order.
func (l *Transactions) ListForOwner(owner string) ([]model.Transaction, error) {
	return l.recs.listFor(owner)
}

// List returns owner's transactions matching f, newest first.
func (l *Transactions) List(owner string, f Filter) ([]model.Transaction, error) {
	txs, err := l.recs.listFor(owner)
	if err != nil {
		return nil, err
	}
	out := ApplyFilter(txs, f)
	SortNewestFirst(out)
	return out, nil
}

// Get returns owner's transaction with the given id.
func (l *Transactions) Get(owner, id string) (model.Transaction, error) {
	tx, ok, err := l.recs.find(owner, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if !ok {
		return model.Transaction{}, model.NotFound("Transaction", id)
	}
	return tx, nil
}

// All returns every owner's transactions.
func (l *Transactions) All() ([]model.Transaction, error) {
	return l.recs.all()
}

// Add validates in and stores it under owner with a fresh id.
func (l *Transactions) Add(owner string, in model.TransactionInput) (model.Transaction, error) {
	if owner == "" {
		return model.Transaction{}, model.ErrNotAuthenticated
	}
	if err := in.Validate(); err != nil {
		return model.Transaction{}, err
	}

	tx := in.Apply(model.Transaction{ID: l.opts.newID(), UserEmail: owner})
	if err := l.recs.append(tx); err != nil {
		return model.Transaction{}, err
	}
	log.Debug().Str("owner", owner).Str("id", tx.ID).Msg("transaction added")
	return tx, nil
}

// Update replaces the transaction whose id and owner both match. It returns
// false, and writes nothing, when there is no such transaction.
func (l *Transactions) Update(owner string, tx model.Transaction) (bool, error) {
	if owner == "" {
		return false, model.ErrNotAuthenticated
	}
	if err := tx.Validate(); err != nil {
		return false, err
	}
	tx.UserEmail = owner
	ok, err := l.recs.replace(owner, tx)
	if ok && err == nil {
		log.Debug().Str("owner", owner).Str("id", tx.ID).Msg("transaction updated")
	}
	return ok, err
}

// Delete removes owner's transaction with the given id and reports whether
// anything was removed.
func (l *Transactions) Delete(owner, id string) (bool, error) {
	if owner == "" {
		return false, model.ErrNotAuthenticated
	}
	ok, err := l.recs.remove(owner, id)
	if ok && err == nil {
		log.Debug().Str("owner", owner).Str("id", id).Msg("transaction deleted")
	}
	return ok, err
}

// Import adds txs under owner, keeping their ids, and skips any id owner
// already has. Every record is validated before anything is written.
func (l *Transactions) Import(owner string, txs []model.Transaction) (int, error) {
	if owner == "" {
		return 0, model.ErrNotAuthenticated
	}
	prepared := make([]model.Transaction, 0, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return 0, model.Validation("Transaction %d: %s", i+1, err.Error())
		}
		if tx.ID == "" {
			tx.ID = l.opts.newID()
		}
		tx.UserEmail = owner
		prepared = append(prepared, tx)
	}
	n, err := l.recs.merge(owner, prepared)
	if err == nil {
		log.Debug().Str("owner", owner).Int("added", n).Msg("transactions imported")
	}
	return n, err
}
