package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period is the window a budget applies to.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// OverallCategory is the budget category that matches every expense.
const OverallCategory = "Overall"

// ParsePeriod parses "monthly" or "yearly", case-insensitively.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case Monthly:
		return Monthly, nil
	case Yearly:
		return Yearly, nil
	}
	return "", Validation("Unknown period %q: use monthly or yearly.", s)
}

// Budget is a spending limit for one category (or Overall) over a period.
type Budget struct {
	ID        string          `json:"id"`
	UserEmail string          `json:"userEmail"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    Period          `json:"period"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Owner returns the email of the owning user.
func (b Budget) Owner() string { return b.UserEmail }

// RecordID returns the budget id.
func (b Budget) RecordID() string { return b.ID }

// Input returns the editable fields of b.
func (b Budget) Input() BudgetInput {
	return BudgetInput{Category: b.Category, Amount: b.Amount, Period: b.Period}
}

// Validate checks the editable fields of b.
func (b Budget) Validate() error {
	return b.Input().Validate()
}

// Covers reports whether an expense in category counts against b.
func (b Budget) Covers(category string) bool {
	return b.Category == OverallCategory || b.Category == category
}

// BudgetInput holds the user-supplied fields of a budget.
type BudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Period   Period
}

// Validate requires a category, a positive amount and a known period.
func (in BudgetInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrMissingFields
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if in.Period != Monthly && in.Period != Yearly {
		return Validation("Unknown period %q: use monthly or yearly.", in.Period)
	}
	return nil
}

// Apply copies the editable fields of in onto b.
func (in BudgetInput) Apply(b Budget) Budget {
	b.Category = in.Category
	b.Amount = in.Amount
	b.Period = in.Period
	return b
}
