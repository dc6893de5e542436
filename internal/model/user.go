// Package model defines the finance domain types shared by every layer.
package model

// User is a registered account. ID equals Email at registration.
// Passwords are stored and compared as entered.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Categories holds the global expense and income category lists.
type Categories struct {
	Expense []string `json:"expense"`
	Income  []string `json:"income"`
}

// DefaultCategories returns the lists seeded on first use.
func DefaultCategories() Categories {
	return Categories{
		Expense: []string{"Food", "Transport", "Utilities", "Entertainment", "Health", "Shopping", "Other"},
		Income:  []string{"Salary", "Bonus", "Gift", "Investment", "Other"},
	}
}

// For returns the list for kind.
func (c Categories) For(kind Kind) []string {
	if kind == Income {
		return c.Income
	}
	return c.Expense
}

// With returns a copy of c with the list for kind replaced.
func (c Categories) With(kind Kind, labels []string) Categories {
	out := Categories{
		Expense: append([]string(nil), c.Expense...),
		Income:  append([]string(nil), c.Income...),
	}
	if kind == Income {
		out.Income = labels
	} else {
		out.Expense = labels
	}
	return out
}

// Contains reports whether label is present in the list for kind.
func (c Categories) Contains(kind Kind, label string) bool {
	for _, l := range c.For(kind) {
		if l == label {
			return true
		}
	}
	return false
}
