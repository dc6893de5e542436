// Package ledger holds the owner-scoped transaction and budget lists.
//
// Each list is stored as one array under a single key holding every owner's
// records. Reads filter by owner; writes load the full array, change it and
// write it back. The mutex only serializes callers within this process.
package ledger

import (
	"fmt"
	"sync"

	"github.com/theirongolddev/fintrack/internal/store"
)

// Record is a ledger entry owned by one user.
type Record interface {
	Owner() string
	RecordID() string
}

type scoped[T Record] struct {
	store store.Store
	key   string
	mu    sync.Mutex
}

func (s *scoped[T]) load() ([]T, error) {
	recs, _, err := store.Load[[]T](s.store, s.key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.key, err)
	}
	return recs, nil
}

func (s *scoped[T]) all() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *scoped[T]) listFor(owner string) ([]T, error) {
	out := []T{}
	if owner == "" {
		return out, nil
	}
	recs, err := s.all()
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.Owner() == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *scoped[T]) find(owner, id string) (T, bool, error) {
	var zero T
	recs, err := s.all()
	if err != nil {
		return zero, false, err
	}
	for _, r := range recs {
		if r.Owner() == owner && r.RecordID() == id {
			return r, true, nil
		}
	}
	return zero, false, nil
}

func (s *scoped[T]) append(rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return err
	}
	return store.Save(s.store, s.key, append(recs, rec))
}

// replace swaps in rec for the first record matching both owner and id. The
// store is not written on a miss.
func (s *scoped[T]) replace(owner string, rec T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return false, err
	}
	for i, r := range recs {
		if r.Owner() == owner && r.RecordID() == rec.RecordID() {
			recs[i] = rec
			return true, store.Save(s.store, s.key, recs)
		}
	}
	return false, nil
}

// remove drops every record matching both owner and id.
func (s *scoped[T]) remove(owner, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return false, err
	}
	kept := make([]T, 0, len(recs))
	for _, r := range recs {
		if r.Owner() == owner && r.RecordID() == id {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == len(recs) {
		return false, nil
	}
	return true, store.Save(s.store, s.key, kept)
}

// merge appends the records in incoming whose id owner does not already have,
// in one write, and returns how many were added.
func (s *scoped[T]) merge(owner string, incoming []T) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool)
	for _, r := range recs {
		if r.Owner() == owner {
			have[r.RecordID()] = true
		}
	}
	added := 0
	for _, r := range incoming {
		if have[r.RecordID()] {
			continue
		}
		have[r.RecordID()] = true
		recs = append(recs, r)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, store.Save(s.store, s.key, recs)
}
