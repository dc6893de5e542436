package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/category"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

func (a App) updateCategoriesTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	labels := a.categories.For(a.catKind)

	switch msg.String() {
	case "a":
		return a.openEntry(a.newCategoryEntry())
	case "h", "left":
		a.catKind = model.Expense
		a.catCur = clampCursor(a.catCur, len(a.categories.For(a.catKind)))
	case "l", "right":
		a.catKind = model.Income
		a.catCur = clampCursor(a.catCur, len(a.categories.For(a.catKind)))
	case "j", "down":
		a.catCur = clampCursor(a.catCur+1, len(labels))
	case "k", "up":
		a.catCur = clampCursor(a.catCur-1, len(labels))
	case "d", "delete":
		if len(labels) == 0 {
			return a, nil
		}
		label := labels[a.catCur]
		if category.Protected(label) {
			a.flash = "\"" + label + "\" cannot be deleted."
			return a, nil
		}
		deleted, err := a.svc.Categories.Delete(a.catKind, label)
		switch {
		case err != nil:
			a.flash = err.Error()
		case deleted:
			a.flash = "Deleted category \"" + label + "\"."
		}
		return a, loadDataCmd(a.svc)
	}
	return a, nil
}

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(muted.Render("[a]dd  [d]elete  h/l switch list  j/k move"))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	cards := []string{
		components.ContentCard("Expense", a.categoryList(model.Expense), halves[0]),
		components.ContentCard("Income", a.categoryList(model.Income), halves[1]),
	}
	b.WriteString(components.CardRow(cards))
	return b.String()
}

func (a App) categoryList(kind model.Kind) string {
	t := theme.Active
	normal := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	selected := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)

	labels := a.categories.For(kind)
	if len(labels) == 0 {
		return dim.Render("(empty)")
	}
	lines := make([]string, len(labels))
	for i, l := range labels {
		text := l
		if category.Protected(l) {
			text += dim.Render(" (default)")
		}
		if kind == a.catKind && i == a.catCur {
			lines[i] = selected.Render("▸ ") + selected.Render(l) + strings.TrimPrefix(text, l)
			continue
		}
		lines[i] = "  " + normal.Render(l) + strings.TrimPrefix(text, l)
	}
	return strings.Join(lines, "\n")
}
