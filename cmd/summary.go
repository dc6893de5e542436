package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var (
	flagTrendMonths    int
	flagBreakdownMonth bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, expense, balance and budget alerts",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show exceeded budgets",
	Args:  cobra.NoArgs,
	RunE:  runAlerts,
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Expenses by category",
	Args:  cobra.NoArgs,
	RunE:  runBreakdown,
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Monthly income and expense",
	Args:  cobra.NoArgs,
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().IntVarP(&flagTrendMonths, "months", "n", 6, "Number of months ending with the current one")
	breakdownCmd.Flags().BoolVar(&flagBreakdownMonth, "this-month", false, "Only the current month")
	rootCmd.AddCommand(summaryCmd, alertsCmd, breakdownCmd, trendCmd)
}

// ownerData is everything the report commands read for one user.
type ownerData struct {
	user    *model.User
	txs     []model.Transaction
	budgets []model.Budget
}

func loadOwnerData(sv *services) (ownerData, error) {
	u, err := sv.requireUser()
	if err != nil {
		return ownerData{}, err
	}
	txs, err := sv.txs.ListForOwner(u.Email)
	if err != nil {
		return ownerData{}, err
	}
	budgets, err := sv.budgets.ListForOwner(u.Email)
	if err != nil {
		return ownerData{}, err
	}
	return ownerData{user: u, txs: txs, budgets: budgets}, nil
}

func runSummary(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		d, err := loadOwnerData(sv)
		if err != nil {
			return err
		}
		now := time.Now()

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("FINANCES  %s", d.user.Name)))
		fmt.Println()

		if len(d.txs) == 0 {
			fmt.Println("  No transactions yet.")
			fmt.Println("  Add one with `fintrack tx add`.")
			fmt.Println()
			return nil
		}

		t := pipeline.Totals(d.txs)
		month := pipeline.Totals(ledger.ApplyFilter(d.txs, ledger.Filter{Year: now.Year(), Month: now.Month()}))
		rows := [][]string{
			{"Income", cli.RenderAmount(money(t.Income), t.Income)},
			{"Expense", cli.RenderAmount(money(t.Expense), t.Expense.Neg())},
			{"Balance", cli.RenderAmount(money(t.Balance), t.Balance)},
			{"---"},
			{"This month", cli.FormatSignedMoney(cfg.General.Currency, month.Balance)},
			{"Transactions", cli.FormatNumber(int64(t.Count))},
			{"Budgets", cli.FormatNumber(int64(len(d.budgets)))},
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Rows:       rows,
			RightAlign: map[int]bool{1: true},
		}))

		if top := pipeline.Breakdown(d.txs); len(top) > 0 {
			if len(top) > 5 {
				top = top[:5]
			}
			fmt.Println()
			fmt.Print(breakdownTable("Top expense categories", top))
		}

		printAlerts(pipeline.BudgetAlerts(d.user.Email, d.budgets, d.txs, now))
		fmt.Println()
		return nil
	})
}

func runAlerts(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		d, err := loadOwnerData(sv)
		if err != nil {
			return err
		}
		alerts := pipeline.BudgetAlerts(d.user.Email, d.budgets, d.txs, time.Now())
		if len(alerts) == 0 {
			fmt.Println("\n  No budgets exceeded.")
			return nil
		}
		printAlerts(alerts)
		fmt.Println()
		return nil
	})
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		d, err := loadOwnerData(sv)
		if err != nil {
			return err
		}
		txs := d.txs
		title := "Expenses by category"
		if flagBreakdownMonth {
			now := time.Now()
			txs = ledger.ApplyFilter(txs, ledger.Filter{Year: now.Year(), Month: now.Month()})
			title += "  " + cli.FormatMonth(now)
		}

		cats := pipeline.Breakdown(txs)
		if len(cats) == 0 {
			fmt.Println("\n  No expenses recorded.")
			return nil
		}
		fmt.Println()
		fmt.Print(breakdownTable(title, cats))
		fmt.Println()
		return nil
	})
}

func breakdownTable(title string, cats []model.CategoryTotal) string {
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{
			c.Category,
			money(c.Amount),
			cli.RenderProgressBar(c.Percent, 12),
			cli.FormatNumber(int64(c.Count)),
		}
	}
	return cli.RenderTable(cli.Table{
		Title:      title,
		Headers:    []string{"Category", "Amount", "Share", "Count"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 3: true},
	})
}

func runTrend(_ *cobra.Command, _ []string) error {
	if flagTrendMonths < 1 || flagTrendMonths > 120 {
		return model.Validation("Months must be between 1 and 120.")
	}
	return withServices(func(sv *services) error {
		d, err := loadOwnerData(sv)
		if err != nil {
			return err
		}
		months := pipeline.MonthlyTrend(d.txs, time.Now(), flagTrendMonths)

		rows := make([][]string, len(months))
		net := make([]float64, len(months))
		for i, m := range months {
			n := m.Net()
			net[i] = n.InexactFloat64()
			rows[i] = []string{
				cli.FormatMonth(m.Month),
				money(m.Income),
				money(m.Expense),
				cli.RenderAmount(cli.FormatSignedMoney(cfg.General.Currency, n), n),
			}
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:      fmt.Sprintf("Last %d months", flagTrendMonths),
			Headers:    []string{"Month", "Income", "Expense", "Net"},
			Rows:       rows,
			RightAlign: map[int]bool{1: true, 2: true, 3: true},
		}))
		fmt.Printf("  Net  %s\n\n", cli.RenderSparkline(net))
		return nil
	})
}

func printAlerts(alerts []model.Alert) {
	if len(alerts) == 0 {
		return
	}
	fmt.Println()
	for _, a := range alerts {
		fmt.Println("  " + cli.RenderWarning(a.Message(cfg.General.Currency)))
	}
}

// warnAlerts prints current budget alerts to stderr after a change. Read
// failures are only logged.
func warnAlerts(sv *services, owner string) {
	txs, err := sv.txs.ListForOwner(owner)
	if err != nil {
		log.Warn().Err(err).Msg("reading transactions for alerts")
		return
	}
	budgets, err := sv.budgets.ListForOwner(owner)
	if err != nil {
		log.Warn().Err(err).Msg("reading budgets for alerts")
		return
	}
	alerts := pipeline.BudgetAlerts(owner, budgets, txs, time.Now())
	if len(alerts) == 0 {
		return
	}
	lines := make([]string, len(alerts))
	for i, a := range alerts {
		lines[i] = "  " + cli.RenderWarning(a.Message(cfg.General.Currency))
	}
	fmt.Fprintln(os.Stderr, strings.Join(lines, "\n"))
}
