// Package theme defines the color themes shared by the CLI tables and the
// fintrack dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps color roles to concrete colors.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // panels, selected rows
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused panel
	TextDim      lipgloss.Color // hints, disabled
	TextMuted    lipgloss.Color // labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color // active tab, keys
	AccentBright lipgloss.Color

	Income  lipgloss.Color // money in, healthy budgets
	Expense lipgloss.Color // money out
	Caution lipgloss.Color // budget nearing its limit
	Warning lipgloss.Color // budget exceeded, errors

	// Series colors the slices of the category breakdown, in order.
	Series []lipgloss.Color
}

// SeriesColor returns the color for the i-th breakdown slice.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[i%len(t.Series)]
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   "#100F0F",
	Surface:      "#282726",
	Border:       "#403E3C",
	BorderAccent: "#3AA99F",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Income:       "#879A39",
	Expense:      "#DA702C",
	Caution:      "#D0A215",
	Warning:      "#D14D41",
	Series:       []lipgloss.Color{"#4385BE", "#CE5D97", "#879A39", "#D0A215", "#24837B", "#DA702C", "#8B7EC8"},
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   "#1E1E2E",
	Surface:      "#45475A",
	Border:       "#585B70",
	BorderAccent: "#89B4FA",
	TextDim:      "#6C7086",
	TextMuted:    "#A6ADC8",
	TextPrimary:  "#CDD6F4",
	Accent:       "#89B4FA",
	AccentBright: "#B4D0FB",
	Income:       "#A6E3A1",
	Expense:      "#FAB387",
	Caution:      "#F9E2AF",
	Warning:      "#F38BA8",
	Series:       []lipgloss.Color{"#89B4FA", "#F5C2E7", "#A6E3A1", "#F9E2AF", "#94E2D5", "#FAB387", "#CBA6F7"},
}

// TokyoNight is a cool blue and purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   "#1A1B26",
	Surface:      "#343A52",
	Border:       "#565F89",
	BorderAccent: "#7AA2F7",
	TextDim:      "#565F89",
	TextMuted:    "#A9B1D6",
	TextPrimary:  "#C0CAF5",
	Accent:       "#7AA2F7",
	AccentBright: "#A9C1FF",
	Income:       "#9ECE6A",
	Expense:      "#FF9E64",
	Caution:      "#E0AF68",
	Warning:      "#F7768E",
	Series:       []lipgloss.Color{"#7AA2F7", "#BB9AF7", "#9ECE6A", "#E0AF68", "#7DCFFF", "#FF9E64", "#2AC3DE"},
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   "0",
	Surface:      "8",
	Border:       "8",
	BorderAccent: "6",
	TextDim:      "8",
	TextMuted:    "7",
	TextPrimary:  "15",
	Accent:       "6",
	AccentBright: "14",
	Income:       "2",
	Expense:      "3",
	Caution:      "11",
	Warning:      "1",
	Series:       []lipgloss.Color{"4", "5", "2", "3", "6", "12", "13"},
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names returns the names of all themes.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// ByName returns a theme by its name and whether it exists, defaulting to
// FlexokiDark.
func ByName(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return FlexokiDark, false
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active, _ = ByName(name)
}
