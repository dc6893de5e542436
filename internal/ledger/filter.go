package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/ryanuber/go-glob"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Filter narrows a transaction listing. Zero fields match everything.
type Filter struct {
	Type     model.Kind
	Category string
	Year     int
	Month    time.Month // only applied together with Year
	Match    string     // glob on description, case-insensitive
}

// ApplyFilter returns the transactions in txs matching f.
func ApplyFilter(txs []model.Transaction, f Filter) []model.Transaction {
	pattern := strings.ToLower(f.Match)
	if pattern != "" && !strings.ContainsAny(pattern, "*") {
		pattern = "*" + pattern + "*"
	}

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.Year != 0 {
			if tx.Date.Year() != f.Year {
				continue
			}
			if f.Month != 0 && tx.Date.Month() != f.Month {
				continue
			}
		}
		if pattern != "" && !glob.Glob(pattern, strings.ToLower(tx.Description)) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SortNewestFirst orders txs by date descending. Entries on the same date come
// out in reverse insertion order.
func SortNewestFirst(txs []model.Transaction) {
	idx := make(map[string]int, len(txs))
	for i, tx := range txs {
		idx[tx.ID] = i
	}
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		return idx[a.ID] > idx[b.ID]
	})
}
