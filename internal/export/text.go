// Package export writes a user's records as plain text or a JSON backup and
// restores backups.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/theirongolddev/fintrack/internal/model"
)

// ErrNothingToExport is returned when there are no transactions to write.
var ErrNothingToExport = errors.New("no transactions to export")

const separator = "------------------------------------"

// WriteText writes txs in the plain-text transaction list format.
func WriteText(w io.Writer, txs []model.Transaction, currency string) error {
	if len(txs) == 0 {
		return ErrNothingToExport
	}

	title := cases.Title(language.English)
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprint(bw, "Transaction List:\n\n")
	for _, tx := range txs {
		_, _ = fmt.Fprintf(bw, "Date: %s\n", tx.Date)
		_, _ = fmt.Fprintf(bw, "Description: %s\n", tx.Description)
		_, _ = fmt.Fprintf(bw, "Category: %s\n", tx.Category)
		_, _ = fmt.Fprintf(bw, "Amount: %s%s\n", currency, tx.Amount.StringFixed(2))
		_, _ = fmt.Fprintf(bw, "Type: %s\n", title.String(string(tx.Type)))
		_, _ = fmt.Fprintln(bw, separator)
	}
	return bw.Flush()
}
