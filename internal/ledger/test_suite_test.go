package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/theirongolddev/fintrack/internal/store"
)

// TestSuiteStandard runs every ledger test against a fresh in-memory store
// with deterministic ids and a fixed clock.
type TestSuiteStandard struct {
	suite.Suite
	store   *store.Memory
	txs     *Transactions
	budgets *Budgets
	seq     int
	now     time.Time
}

// Pseudo-Test run by go test that runs the test suite.
func TestStandard(t *testing.T) {
	suite.Run(t, new(TestSuiteStandard))
}

// SetupTest is called before each test in the suite.
func (suite *TestSuiteStandard) SetupTest() {
	suite.store = store.NewMemory()
	suite.seq = 0
	suite.now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	opts := []Option{
		WithIDFunc(suite.nextID),
		WithClock(func() time.Time { return suite.now }),
	}
	suite.txs = NewTransactions(suite.store, opts...)
	suite.budgets = NewBudgets(suite.store, opts...)
}

func (suite *TestSuiteStandard) nextID() string {
	suite.seq++
	return fmt.Sprintf("id-%d", suite.seq)
}

// raw returns the stored bytes at key.
func (suite *TestSuiteStandard) raw(key string) []byte {
	v, _, err := suite.store.Get(key)
	suite.Require().NoError(err)
	return v
}
