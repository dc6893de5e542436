package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs, in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Transactions", Key: 't'},
	{Name: "Budgets", Key: 'b'},
	{Name: "Categories", Key: 'c'},
}

// tabLabel is the unpadded text of a tab. Inactive tabs bracket their
// shortcut in place of the first letter.
func tabLabel(tab Tab, active bool) (key, rest string) {
	if active {
		return "", tab.Name
	}
	_, size := utf8.DecodeRuneInString(tab.Name)
	return "[" + string(tab.Key) + "]", tab.Name[size:]
}

// TabVisualWidth returns the rendered width of tab, padding included.
func TabVisualWidth(tab Tab, active bool) int {
	key, rest := tabLabel(tab, active)
	return lipgloss.Width(key+rest) + 2
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Background)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		key, rest := tabLabel(tab, i == activeIdx)
		if i == activeIdx {
			parts[i] = activeStyle.Render(" " + rest + " ")
			continue
		}
		parts[i] = inactiveStyle.Render(" ") + keyStyle.Render(key) + inactiveStyle.Render(rest+" ")
	}

	bar := strings.Join(parts, sepStyle.Render("│"))
	return lipgloss.NewStyle().Background(t.Background).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
