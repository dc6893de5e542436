package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingFields = &Error{Kind: KindValidation, Message: "Please fill all fields."}
	ErrInvalidAmount = &Error{Kind: KindValidation, Message: "Please enter a valid positive amount."}
)

// ParseAmount parses a user-entered amount. The whole string must be a
// decimal number and the value must be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingFields
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
