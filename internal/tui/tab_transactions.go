package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// Fixed column widths; Description takes what is left.
var txColumns = []table.Column{
	{Title: "Date", Width: 10},
	{Title: "Description", Width: 30},
	{Title: "Category", Width: 14},
	{Title: "Type", Width: 8},
	{Title: "Amount", Width: 14},
}

func newTxTable() table.Model {
	tbl := table.New(
		table.WithColumns(txColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t := theme.Active
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	st.Selected = st.Selected.Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	tbl.SetStyles(st)
	return tbl
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "description, * wildcards"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a *App) resizeTable() {
	cw := a.contentWidth()
	cols := make([]table.Column, len(txColumns))
	copy(cols, txColumns)
	fixed := 0
	for i, c := range cols {
		if i != 1 {
			fixed += c.Width
		}
	}
	cols[1].Width = max(cw-fixed-2*len(cols)-2, 12)
	a.txTable.SetColumns(cols)
	a.txTable.SetWidth(cw)
	a.txTable.SetHeight(max(a.height-8, 3))
}

func (a App) txRows() []table.Row {
	rows := make([]table.Row, len(a.visible))
	for i, tx := range a.visible {
		amount := a.money(tx.Amount)
		if tx.Type == model.Expense {
			amount = "-" + amount
		}
		rows[i] = table.Row{
			tx.Date.String(),
			tx.Description,
			tx.Category,
			string(tx.Type),
			amount,
		}
	}
	return rows
}

func (a App) selectedTransaction() (model.Transaction, bool) {
	i := a.txTable.Cursor()
	if i < 0 || i >= len(a.visible) {
		return model.Transaction{}, false
	}
	return a.visible[i], true
}

func (a App) updateTransactionsTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return a.openEntry(a.newTransactionEntry(nil))
	case "e", "enter":
		if tx, ok := a.selectedTransaction(); ok {
			return a.openEntry(a.newTransactionEntry(&tx))
		}
		return a, nil
	case "d", "delete":
		tx, ok := a.selectedTransaction()
		if !ok || a.user == nil {
			return a, nil
		}
		deleted, err := a.svc.Transactions.Delete(a.user.Email, tx.ID)
		switch {
		case err != nil:
			a.flash = err.Error()
		case deleted:
			a.flash = "Deleted \"" + cli.Truncate(tx.Description, 24) + "\"."
		}
		return a, loadDataCmd(a.svc)
	case "/":
		a.filtering = true
		a.filter.SetValue(a.match)
		return a, a.filter.Focus()
	case "esc":
		if a.match != "" {
			a.match = ""
			a.recompute()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.txTable, cmd = a.txTable.Update(msg)
	return a, cmd
}

// updateFilter handles keys while the description filter has focus.
// The table narrows as the user types.
func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.filtering = false
		a.filter.Blur()
		return a, nil
	case "esc":
		a.filtering = false
		a.filter.Blur()
		a.match = ""
		a.recompute()
		return a, nil
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.match = strings.TrimSpace(a.filter.Value())
	a.recompute()
	return a, cmd
}

func (a App) renderTransactionsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	switch {
	case a.filtering:
		b.WriteString(a.filter.View())
	case a.match != "":
		b.WriteString(muted.Render("filter: " + a.match + "  (esc to clear)"))
	default:
		b.WriteString(muted.Render("[a]dd  [e]dit  [d]elete  [/]filter"))
	}
	b.WriteString("\n")

	if len(a.visible) == 0 {
		msg := "No transactions yet. Press a to add one."
		if a.match != "" {
			msg = "No transactions match."
		}
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(msg))
		return b.String()
	}

	b.WriteString(a.txTable.View())
	b.WriteString("\n")

	count := cli.FormatNumber(int64(len(a.visible))) + " of " + cli.FormatNumber(int64(len(a.transactions)))
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Width(cw).Align(lipgloss.Right).Render(count))
	return b.String()
}
