package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show what is stored in the data file",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(configCmd, doctorCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", cfg.DataDir())
	fmt.Printf("    Database:       %s\n", cfg.DBPath())
	fmt.Printf("    Currency:       %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll interval: %s\n", cfg.PollInterval())
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  Run `fintrack setup` to reconfigure.")
	return nil
}

func runDoctor(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		keys, err := sv.store.Keys()
		if err != nil {
			return err
		}
		sort.Strings(keys)

		db, onDisk := sv.store.(*store.SQLite)
		now := time.Now()
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			raw, _, err := sv.store.Get(k)
			if err != nil {
				return err
			}
			updated := "-"
			if onDisk {
				if at, ok, err := db.UpdatedAt(k); err == nil && ok {
					updated = cli.FormatAgo(at, now)
				}
			}
			rows = append(rows, []string{k, cli.FormatNumber(int64(len(raw))), updated})
		}

		users, err := sv.dir.List()
		if err != nil {
			return err
		}
		all, err := sv.txs.All()
		if err != nil {
			return err
		}

		fmt.Println()
		if onDisk {
			fmt.Printf("  Database: %s\n", db.Path())
		} else {
			fmt.Println("  Database: in memory")
		}
		fmt.Printf("  Users: %d  Transactions (all users): %d\n", len(users), len(all))
		if owner := sv.dir.Owner(); owner != "" {
			fmt.Printf("  Logged in: %s\n", owner)
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:      "Stored keys",
			Headers:    []string{"Key", "Bytes", "Updated"},
			Rows:       rows,
			RightAlign: map[int]bool{1: true},
		}))
		return nil
	})
}
