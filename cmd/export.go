package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/export"
	"github.com/theirongolddev/fintrack/internal/model"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your transactions as text or a JSON backup",
	Long: "Export the logged-in user's transactions. The txt format is a readable list;\n" +
		"json is a full backup of transactions, budgets and categories that `fintrack import` restores.",
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <backup.json>",
	Short: "Restore a JSON backup into the logged-in account",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "txt", "Output format: txt or json")
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	if flagExportFormat != "txt" && flagExportFormat != "json" {
		return model.Validation("Unknown format %q: use txt or json.", flagExportFormat)
	}

	return withServices(func(sv *services) error {
		d, err := loadOwnerData(sv)
		if err != nil {
			return err
		}
		if flagExportFormat == "txt" && len(d.txs) == 0 {
			fmt.Println("  No transactions to export.")
			return nil
		}

		w, closeOut, err := exportWriter(flagExportOut)
		if err != nil {
			return err
		}

		switch flagExportFormat {
		case "json":
			cats, cerr := sv.cats.Get()
			if cerr != nil {
				closeOut()
				return cerr
			}
			err = export.WriteJSON(w, export.NewBackup(d.user.Email, d.txs, d.budgets, cats, time.Now()))
		default:
			err = export.WriteText(w, d.txs, cfg.General.Currency)
		}
		closeOut()

		switch {
		case errors.Is(err, export.ErrNothingToExport):
			fmt.Println("  No transactions to export.")
			return nil
		case err != nil:
			return err
		}
		if flagExportOut != "" {
			infof("  Exported %d transactions to %s\n", len(d.txs), flagExportOut)
		}
		return nil
	})
}

// exportWriter opens path for writing, or returns stdout when path is empty.
func exportWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("creating export file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func runImport(_ *cobra.Command, args []string) error {
	//nolint:gosec // backup path is given by the local user
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}
	defer func() { _ = f.Close() }()

	b, err := export.ReadBackup(f)
	if err != nil {
		return err
	}

	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}
		res, err := export.Restore(u.Email, b, sv.txs, sv.budgets, sv.cats)
		if err != nil {
			return err
		}
		infof("  Imported %d transactions, %d budgets and %d categories",
			res.Transactions, res.Budgets, res.Categories)
		if skipped := len(b.Transactions) + len(b.Budgets) - res.Transactions - res.Budgets; skipped > 0 {
			infof(" (%d records already present)", skipped)
		}
		infof(".\n")
		warnAlerts(sv, u.Email)
		return nil
	})
}
