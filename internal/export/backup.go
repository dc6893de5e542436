package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"
)

// BackupVersion is the format version written by WriteJSON.
const BackupVersion = 1

// Backup is one user's records plus the shared category lists.
type Backup struct {
	Version      int                 `json:"version"`
	ExportedAt   time.Time           `json:"exportedAt"`
	User         string              `json:"user"`
	Transactions []model.Transaction `json:"transactions"`
	Budgets      []model.Budget      `json:"budgets"`
	Categories   model.Categories    `json:"categories"`
}

// NewBackup assembles a backup of owner's records.
func NewBackup(owner string, txs []model.Transaction, budgets []model.Budget, cats model.Categories, at time.Time) Backup {
	if txs == nil {
		txs = []model.Transaction{}
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	return Backup{
		Version:      BackupVersion,
		ExportedAt:   at.UTC(),
		User:         owner,
		Transactions: txs,
		Budgets:      budgets,
		Categories:   cats,
	}
}

// WriteJSON writes b as indented JSON.
func WriteJSON(w io.Writer, b Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup and checks its version.
func ReadBackup(r io.Reader) (Backup, error) {
	var b Backup
	dec := json.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return Backup{}, fmt.Errorf("decoding backup: %w", err)
	}
	if b.Version < 1 || b.Version > BackupVersion {
		return Backup{}, model.Validation("Unsupported backup version %d.", b.Version)
	}
	return b, nil
}
