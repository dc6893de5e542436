package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals holds the income, expense and balance of one owner's transactions.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  float64         `json:"percent"` // zero when total expense is zero
	Count    int             `json:"count"`
}

// BudgetStatus is the spend measured against one budget for the current window.
type BudgetStatus struct {
	Budget      Budget          `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	UsedPercent float64         `json:"usedPercent"`
	Exceeded    bool            `json:"exceeded"`
}

// Alert reports a budget whose spend exceeded its amount.
type Alert struct {
	BudgetID string          `json:"budgetId"`
	Period   Period          `json:"period"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Spent    decimal.Decimal `json:"spent"`
}

// Message renders the alert as shown to the user, amounts to two decimals.
func (a Alert) Message(currency string) string {
	return "Warning: You have exceeded your " + string(a.Period) + " budget of " +
		currency + a.Amount.StringFixed(2) + " for " + a.Category +
		". Spent: " + currency + a.Spent.StringFixed(2) + "."
}

// MonthTotals holds income and expense for one calendar month.
type MonthTotals struct {
	Month   time.Time       `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Net returns income minus expense.
func (m MonthTotals) Net() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}
