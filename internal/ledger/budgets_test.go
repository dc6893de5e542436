package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

func monthly(category string, amount int64) model.BudgetInput {
	return model.BudgetInput{Category: category, Amount: decimal.NewFromInt(amount), Period: model.Monthly}
}

func (suite *TestSuiteStandard) TestBudgetAdd() {
	b, err := suite.budgets.Add(alice, monthly(model.OverallCategory, 1000))
	suite.Require().NoError(err)
	suite.Equal("id-1", b.ID)
	suite.Equal(alice, b.UserEmail)
	suite.Equal(suite.now, b.CreatedAt)

	list, err := suite.budgets.ListForOwner(alice)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal(b.ID, list[0].ID)
	suite.True(b.CreatedAt.Equal(list[0].CreatedAt))

	_, err = suite.budgets.Add("", monthly("Food", 10))
	suite.ErrorIs(err, model.ErrNotAuthenticated)

	_, err = suite.budgets.Add(alice, model.BudgetInput{Category: "Food", Amount: decimal.NewFromInt(10), Period: "daily"})
	suite.ErrorIs(err, model.ErrValidation)
}

func (suite *TestSuiteStandard) TestBudgetOwnerScoping() {
	ab, err := suite.budgets.Add(alice, monthly("Food", 100))
	suite.Require().NoError(err)
	_, err = suite.budgets.Add(bob, monthly("Food", 200))
	suite.Require().NoError(err)

	ok, err := suite.budgets.Delete(bob, ab.ID)
	suite.Require().NoError(err)
	suite.False(ok)

	before := suite.raw(store.KeyBudgets)
	ab.Amount = decimal.NewFromInt(999)
	ok, err = suite.budgets.Update(bob, ab)
	suite.Require().NoError(err)
	suite.False(ok)
	suite.Equal(before, suite.raw(store.KeyBudgets))

	ok, err = suite.budgets.Update(alice, ab)
	suite.Require().NoError(err)
	suite.True(ok)

	got, err := suite.budgets.Get(alice, ab.ID)
	suite.Require().NoError(err)
	suite.Equal("999", got.Amount.String())

	_, err = suite.budgets.Get(bob, ab.ID)
	suite.ErrorIs(err, model.ErrNotFound)

	ok, err = suite.budgets.Delete(alice, ab.ID)
	suite.Require().NoError(err)
	suite.True(ok)

	bobs, err := suite.budgets.ListForOwner(bob)
	suite.Require().NoError(err)
	suite.Len(bobs, 1)
}
