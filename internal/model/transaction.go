package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the direction of money flow. It also names the two category lists.
type Kind string

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

// ParseKind parses "expense" or "income", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	return "", Validation("Unknown type %q: use expense or income.", s)
}

// Transaction is a single income or expense record owned by one user.
type Transaction struct {
	ID          string          `json:"id"`
	UserEmail   string          `json:"userEmail"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Kind            `json:"type"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
}

// Owner returns the email of the owning user.
func (t Transaction) Owner() string { return t.UserEmail }

// RecordID returns the transaction id.
func (t Transaction) RecordID() string { return t.ID }

// Input returns the editable fields of t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		Date:        t.Date,
	}
}

// Validate checks the editable fields of t.
func (t Transaction) Validate() error {
	return t.Input().Validate()
}

// TransactionInput holds the user-supplied fields of a transaction.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        Kind
	Category    string
	Date        Date
}

// Validate enforces the rules shared by every add and edit path: all fields
// are required and the amount must be positive.
func (in TransactionInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Category) == "" || in.Date.IsZero() {
		return ErrMissingFields
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if in.Type != Expense && in.Type != Income {
		return Validation("Unknown type %q: use expense or income.", in.Type)
	}
	return nil
}

// Apply copies the editable fields of in onto t.
func (in TransactionInput) Apply(t Transaction) Transaction {
	t.Description = in.Description
	t.Amount = in.Amount
	t.Type = in.Type
	t.Category = in.Category
	t.Date = in.Date
	return t
}
