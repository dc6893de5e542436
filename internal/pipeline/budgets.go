package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
)

// InWindow reports whether a transaction dated d counts toward a budget with
// the given period at now. Only monthly budgets have a window: the calendar
// month of now. Yearly budgets have none, so they never accrue spend or alert.
func InWindow(period model.Period, d model.Date, now time.Time) bool {
	if period != model.Monthly {
		return false
	}
	return d.SameMonth(now)
}

// Tracked reports whether spend is measured for budgets of period.
func Tracked(period model.Period) bool {
	return period == model.Monthly
}

// Spent sums the owner's expenses that count against b at now.
func Spent(b model.Budget, txs []model.Transaction, now time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type != model.Expense || tx.UserEmail != b.UserEmail {
			continue
		}
		if !b.Covers(tx.Category) || !InWindow(b.Period, tx.Date, now) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum
}

// BudgetStatuses measures every budget of owner against txs at now.
func BudgetStatuses(owner string, budgets []model.Budget, txs []model.Transaction, now time.Time) []model.BudgetStatus {
	out := make([]model.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if b.UserEmail != owner {
			continue
		}
		spent := Spent(b, txs, now)
		st := model.BudgetStatus{
			Budget:    b,
			Spent:     spent,
			Remaining: b.Amount.Sub(spent),
			Exceeded:  spent.GreaterThan(b.Amount),
		}
		if b.Amount.IsPositive() {
			st.UsedPercent = spent.Div(b.Amount).Mul(hundred).InexactFloat64()
		}
		out = append(out, st)
	}
	return out
}

// BudgetAlerts returns one alert per budget of owner whose spend at now is
// strictly greater than its amount. It is recomputed from scratch each call.
func BudgetAlerts(owner string, budgets []model.Budget, txs []model.Transaction, now time.Time) []model.Alert {
	var alerts []model.Alert
	for _, st := range BudgetStatuses(owner, budgets, txs, now) {
		if !st.Exceeded {
			continue
		}
		alerts = append(alerts, model.Alert{
			BudgetID: st.Budget.ID,
			Period:   st.Budget.Period,
			Category: st.Budget.Category,
			Amount:   st.Budget.Amount,
			Spent:    st.Spent,
		})
	}
	return alerts
}
