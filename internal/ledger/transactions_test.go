package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
)

func expense(desc, amount, category string, day int) model.TransactionInput {
	return model.TransactionInput{
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Type:        model.Expense,
		Category:    category,
		Date:        model.NewDate(2024, time.March, day),
	}
}

func (suite *TestSuiteStandard) TestAddRoundTrip() {
	tx, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)
	suite.Equal("id-1", tx.ID)
	suite.Equal(alice, tx.UserEmail)

	list, err := suite.txs.ListForOwner(alice)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal(tx.ID, list[0].ID)
	suite.Equal(tx.UserEmail, list[0].UserEmail)
	suite.Equal(tx.Description, list[0].Description)
	suite.True(tx.Amount.Equal(list[0].Amount))
	suite.Equal(tx.Type, list[0].Type)
	suite.Equal(tx.Category, list[0].Category)
	suite.Equal(tx.Date, list[0].Date)
}

func (suite *TestSuiteStandard) TestAddRequiresOwner() {
	_, err := suite.txs.Add("", expense("Lunch", "12.50", "Food", 3))
	suite.ErrorIs(err, model.ErrNotAuthenticated)
	suite.Nil(suite.raw(store.KeyTransactions))
}

func (suite *TestSuiteStandard) TestAddValidationLeavesStoreUnchanged() {
	_, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)
	before := suite.raw(store.KeyTransactions)

	bad := expense("", "12.50", "Food", 3)
	_, err = suite.txs.Add(alice, bad)
	suite.ErrorIs(err, model.ErrMissingFields)

	negative := expense("Refund", "1", "Food", 3)
	negative.Amount = decimal.NewFromInt(-1)
	_, err = suite.txs.Add(alice, negative)
	suite.ErrorIs(err, model.ErrInvalidAmount)

	suite.Equal(before, suite.raw(store.KeyTransactions))
}

func (suite *TestSuiteStandard) TestListForUnknownOwnerIsEmpty() {
	_, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)

	for _, owner := range []string{"", "nobody@example.com"} {
		list, err := suite.txs.ListForOwner(owner)
		suite.Require().NoError(err)
		suite.NotNil(list)
		suite.Empty(list)
	}
}

func (suite *TestSuiteStandard) TestOwnerIsolationWithCollidingIDs() {
	// Every add gets the same id, so owners collide on every record.
	txs := NewTransactions(suite.store, WithIDFunc(func() string { return "same" }))

	_, err := txs.Add(alice, expense("Alice lunch", "10", "Food", 1))
	suite.Require().NoError(err)
	_, err = txs.Add(bob, expense("Bob lunch", "20", "Food", 2))
	suite.Require().NoError(err)

	bobs, err := txs.ListForOwner(bob)
	suite.Require().NoError(err)
	suite.Require().Len(bobs, 1)

	edited := bobs[0]
	edited.Description = "Bob dinner"
	ok, err := txs.Update(bob, edited)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = txs.Delete(bob, "same")
	suite.Require().NoError(err)
	suite.True(ok)

	alices, err := txs.ListForOwner(alice)
	suite.Require().NoError(err)
	suite.Require().Len(alices, 1)
	suite.Equal("Alice lunch", alices[0].Description)
	suite.Equal(alice, alices[0].UserEmail)

	bobs, err = txs.ListForOwner(bob)
	suite.Require().NoError(err)
	suite.Empty(bobs)
}

func (suite *TestSuiteStandard) TestOwnerIsolationRandomSequence() {
	owners := []string{alice, bob}
	for i := 0; i < 30; i++ {
		owner := owners[i%2]
		switch i % 3 {
		case 0, 1:
			_, err := suite.txs.Add(owner, expense("item", "1", "Food", 1+i%28))
			suite.Require().NoError(err)
		case 2:
			_, err := suite.txs.Delete(owner, "id-1")
			suite.Require().NoError(err)
		}
	}

	for _, owner := range owners {
		list, err := suite.txs.ListForOwner(owner)
		suite.Require().NoError(err)
		for _, tx := range list {
			suite.Equal(owner, tx.UserEmail)
		}
	}
}

func (suite *TestSuiteStandard) TestUpdateMissLeavesStoreIdentical() {
	tx, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)
	before := suite.raw(store.KeyTransactions)

	ghost := tx
	ghost.ID = "missing"
	ok, err := suite.txs.Update(alice, ghost)
	suite.Require().NoError(err)
	suite.False(ok)

	ok, err = suite.txs.Update(bob, tx)
	suite.Require().NoError(err)
	suite.False(ok, "another owner cannot update by id")

	suite.Equal(before, suite.raw(store.KeyTransactions))
}

func (suite *TestSuiteStandard) TestUpdateReplacesInPlace() {
	first, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)
	_, err = suite.txs.Add(alice, expense("Bus", "2", "Transport", 4))
	suite.Require().NoError(err)

	first.Amount = decimal.RequireFromString("15")
	first.UserEmail = bob
	ok, err := suite.txs.Update(alice, first)
	suite.Require().NoError(err)
	suite.True(ok)

	list, err := suite.txs.ListForOwner(alice)
	suite.Require().NoError(err)
	suite.Require().Len(list, 2)
	suite.Equal("id-1", list[0].ID)
	suite.Equal("15", list[0].Amount.String())
	suite.Equal(alice, list[0].UserEmail, "owner is forced to the acting user")
}

func (suite *TestSuiteStandard) TestUpdateValidation() {
	tx, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)
	before := suite.raw(store.KeyTransactions)

	tx.Category = ""
	ok, err := suite.txs.Update(alice, tx)
	suite.ErrorIs(err, model.ErrValidation)
	suite.False(ok)
	suite.Equal(before, suite.raw(store.KeyTransactions))

	_, err = suite.txs.Update("", tx)
	suite.ErrorIs(err, model.ErrNotAuthenticated)
}

func (suite *TestSuiteStandard) TestDelete() {
	tx, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)

	ok, err := suite.txs.Delete(bob, tx.ID)
	suite.Require().NoError(err)
	suite.False(ok)

	ok, err = suite.txs.Delete(alice, tx.ID)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = suite.txs.Delete(alice, tx.ID)
	suite.Require().NoError(err)
	suite.False(ok)

	_, err = suite.txs.Delete("", tx.ID)
	suite.ErrorIs(err, model.ErrNotAuthenticated)
}

func (suite *TestSuiteStandard) TestGet() {
	tx, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)

	got, err := suite.txs.Get(alice, tx.ID)
	suite.Require().NoError(err)
	suite.Equal(tx.ID, got.ID)

	_, err = suite.txs.Get(bob, tx.ID)
	suite.ErrorIs(err, model.ErrNotFound)
}

func (suite *TestSuiteStandard) TestListFilterAndOrder() {
	_, err := suite.txs.Add(alice, expense("Coffee beans", "8", "Food", 2))
	suite.Require().NoError(err)
	_, err = suite.txs.Add(alice, expense("Train pass", "40", "Transport", 10))
	suite.Require().NoError(err)
	_, err = suite.txs.Add(alice, expense("Coffee shop", "4", "Food", 10))
	suite.Require().NoError(err)
	_, err = suite.txs.Add(alice, model.TransactionInput{
		Description: "Salary",
		Amount:      decimal.NewFromInt(3000),
		Type:        model.Income,
		Category:    "Salary",
		Date:        model.NewDate(2024, time.February, 28),
	})
	suite.Require().NoError(err)

	all, err := suite.txs.List(alice, Filter{})
	suite.Require().NoError(err)
	suite.Require().Len(all, 4)
	suite.Equal([]string{"id-3", "id-2", "id-1", "id-4"}, ids(all))

	coffee, err := suite.txs.List(alice, Filter{Match: "COFFEE"})
	suite.Require().NoError(err)
	suite.Equal([]string{"id-3", "id-1"}, ids(coffee))

	globbed, err := suite.txs.List(alice, Filter{Match: "*pass"})
	suite.Require().NoError(err)
	suite.Equal([]string{"id-2"}, ids(globbed))

	march, err := suite.txs.List(alice, Filter{Year: 2024, Month: time.March, Type: model.Expense, Category: "Food"})
	suite.Require().NoError(err)
	suite.Equal([]string{"id-3", "id-1"}, ids(march))

	income, err := suite.txs.List(alice, Filter{Type: model.Income})
	suite.Require().NoError(err)
	suite.Equal([]string{"id-4"}, ids(income))
}

func ids(txs []model.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func (suite *TestSuiteStandard) TestImportKeepsIDsAndSkipsKnown() {
	existing, err := suite.txs.Add(alice, expense("Lunch", "12.50", "Food", 3))
	suite.Require().NoError(err)

	incoming := []model.Transaction{
		existing,
		expense("Dinner", "30", "Food", 4).Apply(model.Transaction{ID: "backup-7", UserEmail: bob}),
		expense("Snack", "3", "Food", 5).Apply(model.Transaction{}),
	}
	n, err := suite.txs.Import(alice, incoming)
	suite.Require().NoError(err)
	suite.Equal(2, n)

	list, err := suite.txs.ListForOwner(alice)
	suite.Require().NoError(err)
	suite.Equal([]string{"id-1", "backup-7", "id-2"}, ids(list))
	for _, tx := range list {
		suite.Equal(alice, tx.UserEmail)
	}

	n, err = suite.txs.Import(alice, incoming[:2])
	suite.Require().NoError(err)
	suite.Equal(0, n)
}

func (suite *TestSuiteStandard) TestImportValidatesEverythingFirst() {
	bad := expense("", "1", "Food", 1).Apply(model.Transaction{ID: "x"})
	good := expense("Ok", "1", "Food", 1).Apply(model.Transaction{ID: "y"})

	_, err := suite.txs.Import(alice, []model.Transaction{good, bad})
	suite.ErrorIs(err, model.ErrValidation)
	suite.Contains(err.Error(), "Transaction 2")
	suite.Nil(suite.raw(store.KeyTransactions))
}
