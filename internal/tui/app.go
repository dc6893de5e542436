// Package tui provides the interactive Bubble Tea dashboard for fintrack.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/account"
	"github.com/theirongolddev/fintrack/internal/category"
	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// Services are the stores the dashboard reads and mutates.
type Services struct {
	Directory    *account.Directory
	Transactions *ledger.Transactions
	Budgets      *ledger.Budgets
	Categories   *category.Registry
}

// Options tune the dashboard.
type Options struct {
	Currency string
	// Refresh is how often the session and ledgers are re-read, picking up
	// changes made by other fintrack processes.
	Refresh time.Duration
	Now     func() time.Time
}

// DataLoadedMsg carries a fresh read of the logged-in user's records.
type DataLoadedMsg struct {
	User         *model.User
	Transactions []model.Transaction
	Budgets      []model.Budget
	Categories   model.Categories
	Err          error
}

type tickMsg struct{}

const (
	tabOverview = iota
	tabTransactions
	tabBudgets
	tabCategories
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
	trendMonths      = 6
)

// App is the root Bubble Tea model.
type App struct {
	svc      Services
	currency string
	refresh  time.Duration
	now      func() time.Time

	// Data
	user         *model.User
	transactions []model.Transaction
	budgets      []model.Budget
	categories   model.Categories
	loaded       bool
	lastRefresh  time.Time

	// Derived on every load
	totals    model.Totals
	breakdown []model.CategoryTotal
	statuses  []model.BudgetStatus
	alerts    []model.Alert
	trend     []model.MonthTotals

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string

	login *loginState
	entry *entryState

	// Per-tab state
	txTable   table.Model
	visible   []model.Transaction // rows of txTable, newest first
	filter    textinput.Model
	filtering bool
	match     string
	budgetCur int
	catKind   model.Kind
	catCur    int
}

// NewApp creates the dashboard model.
func NewApp(svc Services, opts Options) App {
	if opts.Currency == "" {
		opts.Currency = "₹"
	}
	if opts.Refresh < time.Second {
		opts.Refresh = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return App{
		svc:      svc,
		currency: opts.Currency,
		refresh:  opts.Refresh,
		now:      opts.Now,
		txTable:  newTxTable(),
		filter:   newFilterInput(),
		catKind:  model.Expense,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.svc),
		tickCmd(a.refresh),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeTable()
		if a.login != nil {
			a.login.form = a.login.form.WithWidth(min(msg.Width, 60))
		}
		return a, nil

	case DataLoadedMsg:
		return a.applyData(msg)

	case tickMsg:
		return a, tea.Batch(loadDataCmd(a.svc), tickCmd(a.refresh))

	case tea.MouseMsg:
		if a.login != nil || a.entry != nil || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.login != nil {
			return a.updateLogin(msg)
		}
		if a.entry != nil {
			return a.updateEntry(msg)
		}
		if a.filtering {
			return a.updateFilter(msg)
		}
		return a.updateKey(msg)
	}

	// huh forms also need non-key messages (cursor blink, field focus).
	if a.login != nil {
		return a.updateLogin(msg)
	}
	if a.entry != nil {
		return a.updateEntry(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		return a, loadDataCmd(a.svc)
	case "L":
		if err := a.svc.Directory.Logout(); err != nil {
			a.flash = err.Error()
			return a, nil
		}
		a.flash = "Logged out."
		return a, loadDataCmd(a.svc)
	case "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabTransactions:
		return a.updateTransactionsTab(msg)
	case tabBudgets:
		return a.updateBudgetsTab(msg)
	case tabCategories:
		return a.updateCategoriesTab(msg)
	}
	return a, nil
}

// applyData installs a fresh read and recomputes every aggregate.
func (a App) applyData(msg DataLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.flash = msg.Err.Error()
		return a, nil
	}

	a.loaded = true
	a.lastRefresh = a.now()
	a.user = msg.User
	a.transactions = msg.Transactions
	a.budgets = msg.Budgets
	a.categories = msg.Categories
	a.recompute()

	if a.user == nil && a.login == nil {
		a.entry = nil
		a.login = newLoginState(a.svc.Directory.LastEmail())
		return a, a.login.form.Init()
	}
	if a.user != nil && a.login != nil {
		// Logged in from another process.
		a.login = nil
	}
	return a, nil
}

func (a *App) recompute() {
	now := a.now()
	owner := ""
	if a.user != nil {
		owner = a.user.Email
	}

	a.totals = pipeline.Totals(a.transactions)
	a.breakdown = pipeline.Breakdown(a.transactions)
	a.statuses = pipeline.BudgetStatuses(owner, a.budgets, a.transactions, now)
	a.alerts = pipeline.BudgetAlerts(owner, a.budgets, a.transactions, now)
	a.trend = pipeline.MonthlyTrend(a.transactions, now, trendMonths)

	a.budgetCur = clampCursor(a.budgetCur, len(a.budgets))
	a.catCur = clampCursor(a.catCur, len(a.categories.For(a.catKind)))
	a.visible = ledger.ApplyFilter(a.transactions, ledger.Filter{Match: a.match})
	ledger.SortNewestFirst(a.visible)
	a.txTable.SetRows(a.txRows())
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.login != nil {
		return a.viewLogin()
	}
	if a.entry != nil {
		return a.viewEntry()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fintrack needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	msg := lipgloss.NewStyle().Foreground(t.TextMuted).Render("Loading your ledger…")
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, msg,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Navigation", [][2]string{
			{"o t b c", "switch tab"},
			{"tab / shift+tab", "next / previous tab"},
			{"r", "refresh now"},
			{"L", "log out"},
			{"q", "quit"},
		}},
		{"Transactions", [][2]string{
			{"a", "add"},
			{"e", "edit selected"},
			{"d", "delete selected"},
			{"/", "filter by description"},
			{"esc", "clear filter"},
		}},
		{"Budgets", [][2]string{
			{"a", "add"},
			{"d", "delete selected"},
			{"j / k", "move"},
		}},
		{"Categories", [][2]string{
			{"a", "add"},
			{"d", "delete selected"},
			{"h / l", "expense / income"},
		}},
	}

	var b strings.Builder
	for _, s := range sections {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(s.title))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString("  " + keyStyle.Render(fmt.Sprintf("%-16s", k[0])) + descStyle.Render(k[1]) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(descStyle.Render("Press any key to close"))

	card := components.ContentCard("Keys", b.String(), min(a.width, 60))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	user := ""
	if a.user != nil {
		user = a.user.Email
	}
	statusBar := components.RenderStatusBar(w, user, a.flash, cli.FormatAgo(a.lastRefresh, a.now()))

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabTransactions:
		content = a.renderTransactionsTab(cw)
	case tabBudgets:
		content = a.renderBudgetsTab(cw)
	case tabCategories:
		content = a.renderCategoriesTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd re-reads the session, which another process may have changed,
// then the logged-in user's records.
func loadDataCmd(svc Services) tea.Cmd {
	return func() tea.Msg {
		return loadData(svc)
	}
}

func loadData(svc Services) DataLoadedMsg {
	if _, err := svc.Directory.Sync(); err != nil {
		return DataLoadedMsg{Err: err}
	}
	u := svc.Directory.Session()
	if u == nil {
		return DataLoadedMsg{}
	}

	txs, err := svc.Transactions.ListForOwner(u.Email)
	if err != nil {
		return DataLoadedMsg{Err: err}
	}
	budgets, err := svc.Budgets.ListForOwner(u.Email)
	if err != nil {
		return DataLoadedMsg{Err: err}
	}
	cats, err := svc.Categories.Get()
	if err != nil {
		return DataLoadedMsg{Err: err}
	}
	return DataLoadedMsg{User: u, Transactions: txs, Budgets: budgets, Categories: cats}
}

// ─── Helpers ────────────────────────────────────────────────────

func (a App) money(d decimal.Decimal) string {
	return cli.FormatMoney(a.currency, d)
}

func clampCursor(cur, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cur, 0), n-1)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
