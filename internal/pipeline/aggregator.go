// Package pipeline derives totals, breakdowns and budget alerts from ledger
// snapshots. Nothing here touches the store.
package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// Uncategorized labels expenses saved without a category.
const Uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

// Totals sums income and expense over txs.
func Totals(txs []model.Transaction) model.Totals {
	t := model.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case model.Income:
			t.Income = t.Income.Add(tx.Amount)
		case model.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
		t.Count++
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// Breakdown groups expenses by category, largest first. Percent is the share
// of total expense and stays zero when there is no expense.
func Breakdown(txs []model.Transaction) []model.CategoryTotal {
	byCat := make(map[string]*model.CategoryTotal)
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type != model.Expense {
			continue
		}
		name := tx.Category
		if name == "" {
			name = Uncategorized
		}
		ct, ok := byCat[name]
		if !ok {
			ct = &model.CategoryTotal{Category: name, Amount: decimal.Zero}
			byCat[name] = ct
		}
		ct.Amount = ct.Amount.Add(tx.Amount)
		ct.Count++
		total = total.Add(tx.Amount)
	}

	result := make([]model.CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		if total.IsPositive() {
			ct.Percent = ct.Amount.Div(total).Mul(hundred).InexactFloat64()
		}
		result = append(result, *ct)
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Amount.Cmp(result[j].Amount); c != 0 {
			return c > 0
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// MonthlyTrend returns income and expense for each of the n calendar months
// ending with the month containing now, oldest first.
func MonthlyTrend(txs []model.Transaction, now time.Time, n int) []model.MonthTotals {
	if n < 1 {
		return nil
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	months := make([]model.MonthTotals, n)
	index := make(map[string]int, n)
	for i := range months {
		m := start.AddDate(0, i, 0)
		months[i] = model.MonthTotals{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
		index[m.Format("2006-01")] = i
	}

	for _, tx := range txs {
		i, ok := index[tx.Date.Format("2006-01")]
		if !ok {
			continue
		}
		switch tx.Type {
		case model.Income:
			months[i].Income = months[i].Income.Add(tx.Amount)
		case model.Expense:
			months[i].Expense = months[i].Expense.Add(tx.Amount)
		}
	}
	return months
}

// OwnedBy returns the records in recs belonging to owner.
func OwnedBy[T interface{ Owner() string }](recs []T, owner string) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if r.Owner() == owner {
			out = append(out, r)
		}
	}
	return out
}
