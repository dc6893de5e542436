package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("updating: %w", NotFound("transaction", "abc"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))

	assert.True(t, errors.Is(ErrMissingFields, ErrValidation))
	assert.True(t, errors.Is(Validation("bad %s", "thing"), ErrValidation))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"12.50", "12.5", nil},
		{" 7 ", "7", nil},
		{"0.01", "0.01", nil},
		{"", "", ErrMissingFields},
		{"0", "", ErrInvalidAmount},
		{"-3", "", ErrInvalidAmount},
		{"12abc", "", ErrInvalidAmount},
		{"abc", "", ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09"`), &d))
	assert.Equal(t, "2024-03-09", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09T18:30:00Z"`), &d))
	assert.Equal(t, "2024-03-09", d.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"09/03/2024"`), &d))
}

func TestDateWindows(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	assert.True(t, NewDate(2024, time.March, 1).SameMonth(now))
	assert.False(t, NewDate(2023, time.March, 1).SameMonth(now))
	assert.False(t, NewDate(2024, time.February, 29).SameMonth(now))
}

func TestTransactionInputValidate(t *testing.T) {
	valid := TransactionInput{
		Description: "Lunch",
		Amount:      decimal.RequireFromString("10"),
		Type:        Expense,
		Category:    "Food",
		Date:        NewDate(2024, time.May, 1),
	}
	require.NoError(t, valid.Validate())

	missing := valid
	missing.Description = "  "
	assert.ErrorIs(t, missing.Validate(), ErrMissingFields)

	noDate := valid
	noDate.Date = Date{}
	assert.ErrorIs(t, noDate.Validate(), ErrMissingFields)

	zero := valid
	zero.Amount = decimal.Zero
	assert.ErrorIs(t, zero.Validate(), ErrInvalidAmount)

	badType := valid
	badType.Type = "transfer"
	assert.ErrorIs(t, badType.Validate(), ErrValidation)
}

func TestBudgetInputValidate(t *testing.T) {
	in := BudgetInput{Category: OverallCategory, Amount: decimal.NewFromInt(1000), Period: Monthly}
	require.NoError(t, in.Validate())

	in.Period = "weekly"
	assert.ErrorIs(t, in.Validate(), ErrValidation)

	b := Budget{Category: OverallCategory}
	assert.True(t, b.Covers("Food"))
	b.Category = "Food"
	assert.True(t, b.Covers("Food"))
	assert.False(t, b.Covers("Health"))
}

func TestTransactionJSONShape(t *testing.T) {
	tx := Transaction{
		ID:          "1",
		UserEmail:   "a@b.co",
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200.50"),
		Type:        Expense,
		Category:    "Utilities",
		Date:        NewDate(2024, time.June, 1),
	}
	out, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","userEmail":"a@b.co","description":"Rent","amount":"1200.5","type":"expense","category":"Utilities","date":"2024-06-01"}`, string(out))

	var legacy Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"id":"17","userEmail":"a@b.co","amount":42.1,"type":"income","category":"Salary","date":"2024-06-02"}`), &legacy))
	assert.True(t, legacy.Amount.Equal(decimal.RequireFromString("42.1")))
	assert.Equal(t, Income, legacy.Type)
}

func TestAlertMessage(t *testing.T) {
	a := Alert{Period: Monthly, Category: OverallCategory, Amount: decimal.NewFromInt(1000), Spent: decimal.NewFromInt(1200)}
	assert.Equal(t, "Warning: You have exceeded your monthly budget of ₹1000.00 for Overall. Spent: ₹1200.00.", a.Message("₹"))
}

func TestCategoriesWithCopies(t *testing.T) {
	c := DefaultCategories()
	next := c.With(Expense, []string{"Food"})
	assert.Equal(t, []string{"Food"}, next.Expense)
	assert.Len(t, c.Expense, 7)
	assert.True(t, c.Contains(Income, "Salary"))
	assert.False(t, c.Contains(Expense, "Salary"))
}
