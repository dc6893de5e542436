package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fintrack/internal/model"
)

const owner = "asha@example.com"

var now = time.Date(2024, time.March, 20, 9, 30, 0, 0, time.Local)

func tx(kind model.Kind, amount, category string, date model.Date) model.Transaction {
	return model.Transaction{
		ID:          category + amount,
		UserEmail:   owner,
		Description: category,
		Amount:      decimal.RequireFromString(amount),
		Type:        kind,
		Category:    category,
		Date:        date,
	}
}

func thisMonth(day int) model.Date { return model.NewDate(2024, time.March, day) }

func TestTotals(t *testing.T) {
	txs := []model.Transaction{
		tx(model.Income, "3000", "Salary", thisMonth(1)),
		tx(model.Expense, "120.10", "Food", thisMonth(2)),
		tx(model.Expense, "79.90", "Transport", thisMonth(3)),
	}
	got := Totals(txs)
	assert.Equal(t, "3000", got.Income.String())
	assert.Equal(t, "200", got.Expense.String())
	assert.Equal(t, "2800", got.Balance.String())
	assert.Equal(t, 3, got.Count)

	empty := Totals(nil)
	assert.True(t, empty.Balance.IsZero())
}

func TestBreakdown(t *testing.T) {
	txs := []model.Transaction{
		tx(model.Expense, "30", "Food", thisMonth(1)),
		tx(model.Expense, "10", "", thisMonth(1)),
		tx(model.Expense, "30", "Food", thisMonth(2)),
		tx(model.Expense, "20", "Health", thisMonth(2)),
		tx(model.Expense, "10", "Bills", thisMonth(2)),
		tx(model.Income, "500", "Salary", thisMonth(3)),
	}
	got := Breakdown(txs)
	require.Len(t, got, 4)

	assert.Equal(t, "Food", got[0].Category)
	assert.Equal(t, "60", got[0].Amount.String())
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 60.0, got[0].Percent, 1e-9)

	assert.Equal(t, "Health", got[1].Category)
	assert.Equal(t, "Bills", got[2].Category, "ties sort by name")
	assert.Equal(t, Uncategorized, got[3].Category)
	assert.InDelta(t, 10.0, got[3].Percent, 1e-9)

	assert.Empty(t, Breakdown([]model.Transaction{tx(model.Income, "5", "Gift", thisMonth(1))}))
}

func TestMonthlyTrend(t *testing.T) {
	txs := []model.Transaction{
		tx(model.Income, "100", "Salary", model.NewDate(2024, time.January, 5)),
		tx(model.Expense, "40", "Food", model.NewDate(2024, time.January, 9)),
		tx(model.Expense, "25", "Food", thisMonth(2)),
		tx(model.Expense, "999", "Food", model.NewDate(2023, time.December, 31)),
	}
	got := MonthlyTrend(txs, now, 3)
	require.Len(t, got, 3)
	assert.Equal(t, time.January, got[0].Month.Month())
	assert.Equal(t, "100", got[0].Income.String())
	assert.Equal(t, "40", got[0].Expense.String())
	assert.Equal(t, "60", got[0].Net().String())
	assert.True(t, got[1].Expense.IsZero())
	assert.Equal(t, time.March, got[2].Month.Month())
	assert.Equal(t, "25", got[2].Expense.String())

	assert.Nil(t, MonthlyTrend(txs, now, 0))
}

func TestOwnedBy(t *testing.T) {
	a := tx(model.Expense, "1", "Food", thisMonth(1))
	b := a
	b.UserEmail = "other@example.com"
	got := OwnedBy([]model.Transaction{a, b}, owner)
	require.Len(t, got, 1)
	assert.Equal(t, owner, got[0].UserEmail)
}

func TestBudgetAlertOverallMonthly(t *testing.T) {
	budget := model.Budget{ID: "b1", UserEmail: owner, Category: model.OverallCategory, Amount: decimal.NewFromInt(1000), Period: model.Monthly}

	over := []model.Transaction{
		tx(model.Expense, "500", "Food", thisMonth(1)),
		tx(model.Expense, "400", "Transport", thisMonth(5)),
		tx(model.Expense, "300", "Health", thisMonth(19)),
	}
	alerts := BudgetAlerts(owner, []model.Budget{budget}, over, now)
	require.Len(t, alerts, 1)
	msg := alerts[0].Message("₹")
	assert.Contains(t, msg, "1000.00")
	assert.Contains(t, msg, "1200.00")
	assert.Equal(t, "Warning: You have exceeded your monthly budget of ₹1000.00 for Overall. Spent: ₹1200.00.", msg)

	under := []model.Transaction{
		tx(model.Expense, "500", "Food", thisMonth(1)),
		tx(model.Expense, "400", "Transport", thisMonth(5)),
	}
	assert.Empty(t, BudgetAlerts(owner, []model.Budget{budget}, under, now))
}

func TestBudgetAlertAtLimitDoesNotFire(t *testing.T) {
	budget := model.Budget{UserEmail: owner, Category: "Food", Amount: decimal.NewFromInt(100), Period: model.Monthly}
	txs := []model.Transaction{tx(model.Expense, "100", "Food", thisMonth(1))}
	assert.Empty(t, BudgetAlerts(owner, []model.Budget{budget}, txs, now))
}

func TestBudgetAlertFiltering(t *testing.T) {
	food := model.Budget{ID: "food", UserEmail: owner, Category: "Food", Amount: decimal.NewFromInt(100), Period: model.Monthly}

	stranger := tx(model.Expense, "500", "Food", thisMonth(1))
	stranger.UserEmail = "other@example.com"

	txs := []model.Transaction{
		stranger,
		tx(model.Expense, "500", "Transport", thisMonth(1)),
		tx(model.Income, "500", "Food", thisMonth(1)),
		tx(model.Expense, "500", "Food", model.NewDate(2024, time.February, 28)),
		tx(model.Expense, "500", "Food", model.NewDate(2023, time.March, 10)),
		tx(model.Expense, "60", "Food", thisMonth(4)),
	}
	assert.Empty(t, BudgetAlerts(owner, []model.Budget{food}, txs, now))

	txs = append(txs, tx(model.Expense, "40.01", "Food", thisMonth(6)))
	alerts := BudgetAlerts(owner, []model.Budget{food}, txs, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "100.01", alerts[0].Spent.String())
	assert.True(t, strings.HasSuffix(alerts[0].Message("$"), "Spent: $100.01."))

	// Another owner's budget never alerts for this owner.
	theirs := food
	theirs.UserEmail = "other@example.com"
	assert.Empty(t, BudgetAlerts(owner, []model.Budget{theirs}, txs, now))
}

func TestBudgetYearlyNeverAlerts(t *testing.T) {
	yearly := model.Budget{UserEmail: owner, Category: "Food", Amount: decimal.NewFromInt(100), Period: model.Yearly}
	txs := []model.Transaction{
		tx(model.Expense, "150", "Food", thisMonth(1)),
		tx(model.Expense, "600", "Food", model.NewDate(now.Year(), time.January, 3)),
	}
	assert.Empty(t, BudgetAlerts(owner, []model.Budget{yearly}, txs, now))

	got := BudgetStatuses(owner, []model.Budget{yearly}, txs, now)
	require.Len(t, got, 1)
	assert.True(t, got[0].Spent.IsZero())
	assert.False(t, got[0].Exceeded)

	assert.False(t, InWindow(model.Yearly, thisMonth(1), now))
	assert.True(t, InWindow(model.Monthly, thisMonth(1), now))
	assert.False(t, Tracked(model.Yearly))
	assert.True(t, Tracked(model.Monthly))
}

func TestBudgetStatuses(t *testing.T) {
	budgets := []model.Budget{
		{ID: "a", UserEmail: owner, Category: "Food", Amount: decimal.NewFromInt(200), Period: model.Monthly},
		{ID: "b", UserEmail: "other@example.com", Category: "Food", Amount: decimal.NewFromInt(1), Period: model.Monthly},
	}
	txs := []model.Transaction{tx(model.Expense, "50", "Food", thisMonth(2))}

	got := BudgetStatuses(owner, budgets, txs, now)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Budget.ID)
	assert.Equal(t, "150", got[0].Remaining.String())
	assert.InDelta(t, 25.0, got[0].UsedPercent, 1e-9)
	assert.False(t, got[0].Exceeded)
}
