package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var (
	flagTxDesc     string
	flagTxAmount   string
	flagTxType     string
	flagTxCategory string
	flagTxDate     string

	flagListType     string
	flagListCategory string
	flagListYear     int
	flagListMonth    int
	flagListMatch    string
	flagListLimit    int
)

var txCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transactions"},
	Short:   "Manage transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction (prompts when fields are missing)",
	Args:  cobra.NoArgs,
	RunE:  runTxAdd,
}

var txEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transaction (prompts when no field flags are given)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxEdit,
}

var txRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a transaction",
	Args:    cobra.ExactArgs(1),
	RunE:    runTxRm,
}

var txListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List transactions, newest first",
	Args:    cobra.NoArgs,
	RunE:    runTxList,
}

func init() {
	for _, c := range []*cobra.Command{txAddCmd, txEditCmd} {
		c.Flags().StringVar(&flagTxDesc, "desc", "", "Description")
		c.Flags().StringVar(&flagTxAmount, "amount", "", "Amount (positive)")
		c.Flags().StringVar(&flagTxType, "type", "expense", "expense or income")
		c.Flags().StringVar(&flagTxCategory, "category", "", "Category label")
		c.Flags().StringVar(&flagTxDate, "date", "", "Date as YYYY-MM-DD (default today)")
	}

	txListCmd.Flags().StringVar(&flagListType, "type", "", "Only expense or income")
	txListCmd.Flags().StringVar(&flagListCategory, "category", "", "Only this category")
	txListCmd.Flags().IntVar(&flagListYear, "year", 0, "Only this year")
	txListCmd.Flags().IntVar(&flagListMonth, "month", 0, "Only this month (1-12, needs --year or uses the current year)")
	txListCmd.Flags().StringVar(&flagListMatch, "match", "", "Description pattern, * wildcards")
	txListCmd.Flags().IntVarP(&flagListLimit, "limit", "l", 0, "Show at most this many rows")

	txCmd.AddCommand(txAddCmd, txEditCmd, txRmCmd, txListCmd)
	rootCmd.AddCommand(txCmd)
}

// txValues holds a transaction as typed by the user.
type txValues struct {
	description, amount, kind, category, date string
}

func valuesOf(tx model.Transaction) txValues {
	return txValues{
		description: tx.Description,
		amount:      tx.Amount.String(),
		kind:        string(tx.Type),
		category:    tx.Category,
		date:        tx.Date.String(),
	}
}

// input parses v. Blank fields are reported before malformed ones.
func (v txValues) input() (model.TransactionInput, error) {
	for _, f := range []string{v.description, v.amount, v.category, v.date} {
		if strings.TrimSpace(f) == "" {
			return model.TransactionInput{}, model.ErrMissingFields
		}
	}
	amount, err := model.ParseAmount(v.amount)
	if err != nil {
		return model.TransactionInput{}, err
	}
	kind, err := model.ParseKind(v.kind)
	if err != nil {
		return model.TransactionInput{}, err
	}
	date, err := model.ParseDate(strings.TrimSpace(v.date))
	if err != nil {
		return model.TransactionInput{}, err
	}
	return model.TransactionInput{
		Description: strings.TrimSpace(v.description),
		Amount:      amount,
		Type:        kind,
		Category:    strings.TrimSpace(v.category),
		Date:        date,
	}, nil
}

// promptTransaction runs the interactive transaction form over v.
func promptTransaction(title string, v *txValues, cats model.Categories) error {
	if v.kind == "" {
		v.kind = string(model.Expense)
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Description").Value(&v.description),
			huh.NewInput().Title("Amount").Value(&v.amount),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(model.Expense)),
					huh.NewOption("Income", string(model.Income)),
				).
				Value(&v.kind),
			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(cats.For(model.Kind(v.kind))...)
				}, &v.kind).
				Value(&v.category),
			huh.NewInput().Title("Date").Placeholder(model.DateLayout).Value(&v.date),
		).Title(title),
	)
	return form.Run()
}

func runTxAdd(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}

		v := txValues{
			description: flagTxDesc,
			amount:      flagTxAmount,
			kind:        flagTxType,
			category:    flagTxCategory,
			date:        flagTxDate,
		}
		if v.date == "" {
			v.date = model.DateOf(time.Now()).String()
		}
		if v.description == "" || v.amount == "" || v.category == "" {
			cats, err := sv.cats.Get()
			if err != nil {
				return err
			}
			if err := promptTransaction("New transaction", &v, cats); err != nil {
				return err
			}
		}

		in, err := v.input()
		if err != nil {
			return err
		}
		tx, err := sv.txs.Add(u.Email, in)
		if err != nil {
			return err
		}
		infof("  Added %s %s (%s) on %s\n", tx.Type, money(tx.Amount), tx.Category, tx.Date)
		infof("  %s\n", cli.RenderMuted("id "+tx.ID))
		warnAlerts(sv, u.Email)
		return nil
	})
}

func runTxEdit(cmd *cobra.Command, args []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}
		tx, err := sv.txs.Get(u.Email, args[0])
		if err != nil {
			return err
		}

		v := valuesOf(tx)
		changed := false
		for name, dst := range map[string]*string{
			"desc": &v.description, "amount": &v.amount, "type": &v.kind,
			"category": &v.category, "date": &v.date,
		} {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				*dst = f.Value.String()
				changed = true
			}
		}
		if !changed {
			cats, err := sv.cats.Get()
			if err != nil {
				return err
			}
			if err := promptTransaction("Edit transaction", &v, cats); err != nil {
				return err
			}
		}

		in, err := v.input()
		if err != nil {
			return err
		}
		ok, err := sv.txs.Update(u.Email, in.Apply(tx))
		if err != nil {
			return err
		}
		if !ok {
			return model.NotFound("Transaction", tx.ID)
		}
		infof("  Transaction updated.\n")
		warnAlerts(sv, u.Email)
		return nil
	})
}

func runTxRm(_ *cobra.Command, args []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}
		ok, err := sv.txs.Delete(u.Email, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return model.NotFound("Transaction", args[0])
		}
		infof("  Transaction deleted.\n")
		return nil
	})
}

func listFilter() (ledger.Filter, error) {
	f := ledger.Filter{
		Category: flagListCategory,
		Year:     flagListYear,
		Match:    flagListMatch,
	}
	if flagListType != "" {
		k, err := model.ParseKind(flagListType)
		if err != nil {
			return f, err
		}
		f.Type = k
	}
	if flagListMonth != 0 {
		if flagListMonth < 1 || flagListMonth > 12 {
			return f, model.Validation("Month must be between 1 and 12.")
		}
		f.Month = time.Month(flagListMonth)
		if f.Year == 0 {
			f.Year = time.Now().Year()
		}
	}
	return f, nil
}

func runTxList(_ *cobra.Command, _ []string) error {
	f, err := listFilter()
	if err != nil {
		return err
	}

	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}
		txs, err := sv.txs.List(u.Email, f)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Println("\n  No transactions found.")
			return nil
		}

		shown := txs
		if flagListLimit > 0 && len(shown) > flagListLimit {
			shown = shown[:flagListLimit]
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:      fmt.Sprintf("Transactions  %s of %s", cli.FormatNumber(int64(len(shown))), cli.FormatNumber(int64(len(txs)))),
			Headers:    []string{"Date", "Description", "Category", "Amount", "ID"},
			Rows:       txRows(shown),
			RightAlign: map[int]bool{3: true},
		}))

		t := pipeline.Totals(txs)
		fmt.Printf("  Income %s  Expense %s  Balance %s\n\n",
			money(t.Income), money(t.Expense), cli.RenderAmount(money(t.Balance), t.Balance))
		return nil
	})
}

func txRows(txs []model.Transaction) [][]string {
	rows := make([][]string, len(txs))
	for i, tx := range txs {
		signed := tx.Amount
		if tx.Type == model.Expense {
			signed = signed.Neg()
		}
		rows[i] = []string{
			tx.Date.String(),
			cli.Truncate(tx.Description, 32),
			tx.Category,
			cli.RenderAmount(cli.FormatSignedMoney(cfg.General.Currency, signed), signed),
			tx.ID,
		}
	}
	return rows
}
