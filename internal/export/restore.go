package export

import (
	"github.com/theirongolddev/fintrack/internal/model"
)

// TransactionImporter adds transactions under an owner, skipping known ids.
type TransactionImporter interface {
	Import(owner string, txs []model.Transaction) (int, error)
}

// BudgetImporter adds budgets under an owner, skipping known ids.
type BudgetImporter interface {
	Import(owner string, budgets []model.Budget) (int, error)
}

// CategoryAdder adds a category label if it is not already present.
type CategoryAdder interface {
	Add(kind model.Kind, label string) (bool, error)
}

// RestoreResult counts what a restore added.
type RestoreResult struct {
	Transactions int
	Budgets      int
	Categories   int
}

// Restore loads b into owner's ledgers. Records keep their ids and are
// re-owned by owner whatever user the backup was taken from. Missing category
// labels are added. Every record is validated before anything is written.
func Restore(owner string, b Backup, txs TransactionImporter, budgets BudgetImporter, cats CategoryAdder) (RestoreResult, error) {
	var res RestoreResult
	if owner == "" {
		return res, model.ErrNotAuthenticated
	}
	for i, tx := range b.Transactions {
		if err := tx.Validate(); err != nil {
			return res, model.Validation("Transaction %d: %s", i+1, err.Error())
		}
	}
	for i, bud := range b.Budgets {
		if err := bud.Validate(); err != nil {
			return res, model.Validation("Budget %d: %s", i+1, err.Error())
		}
	}

	for _, kind := range []model.Kind{model.Expense, model.Income} {
		for _, label := range b.Categories.For(kind) {
			added, err := cats.Add(kind, label)
			if err != nil {
				return res, err
			}
			if added {
				res.Categories++
			}
		}
	}

	n, err := txs.Import(owner, b.Transactions)
	if err != nil {
		return res, err
	}
	res.Transactions = n

	n, err = budgets.Import(owner, b.Budgets)
	if err != nil {
		return res, err
	}
	res.Budgets = n
	return res, nil
}
