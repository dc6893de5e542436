package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

func (a App) updateBudgetsTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return a.openEntry(a.newBudgetEntry())
	case "j", "down":
		a.budgetCur = clampCursor(a.budgetCur+1, len(a.statuses))
	case "k", "up":
		a.budgetCur = clampCursor(a.budgetCur-1, len(a.statuses))
	case "d", "delete":
		if a.user == nil || len(a.statuses) == 0 {
			return a, nil
		}
		b := a.statuses[a.budgetCur].Budget
		deleted, err := a.svc.Budgets.Delete(a.user.Email, b.ID)
		switch {
		case err != nil:
			a.flash = err.Error()
		case deleted:
			a.flash = fmt.Sprintf("Deleted %s budget for %s.", b.Period, b.Category)
		}
		return a, loadDataCmd(a.svc)
	}
	return a, nil
}

func (a App) renderBudgetsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(muted.Render("[a]dd  [d]elete  j/k move"))
	b.WriteString("\n")

	if len(a.statuses) == 0 {
		b.WriteString(dim.Render("No budgets yet. Press a to add one."))
		return b.String()
	}

	title := cases.Title(language.English)
	inner := components.CardInnerWidth(cw)
	labelW := 24
	barW := max(inner-labelW-10, 10)

	var rows []string
	for i, st := range a.statuses {
		label := fmt.Sprintf("%s · %s", st.Budget.Category, title.String(string(st.Budget.Period)))
		line := components.BudgetBar(label, st.UsedPercent/100, labelW, barW)

		detail := fmt.Sprintf("spent %s of %s", a.money(st.Spent), a.money(st.Budget.Amount))
		if !pipeline.Tracked(st.Budget.Period) {
			detail = fmt.Sprintf("%s, spend not tracked", a.money(st.Budget.Amount))
		} else if st.Exceeded {
			detail += lipgloss.NewStyle().Foreground(t.Warning).Bold(true).
				Render(fmt.Sprintf("  over by %s", a.money(st.Spent.Sub(st.Budget.Amount))))
		} else {
			detail += fmt.Sprintf("  %s left", a.money(st.Remaining))
		}
		detail += dim.Render("  created " + cli.FormatAgo(st.Budget.CreatedAt, a.now()))

		cursor := "  "
		if i == a.budgetCur {
			cursor = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render("▸ ")
		}
		rows = append(rows, cursor+line+"\n  "+muted.Render(detail))
	}

	b.WriteString(components.ContentCard("Budgets this period", strings.Join(rows, "\n\n"), cw))
	return b.String()
}
