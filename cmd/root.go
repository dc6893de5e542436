// Package cmd implements the fintrack CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/account"
	"github.com/theirongolddev/fintrack/internal/category"
	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

var (
	flagDataDir   string
	flagCurrency  string
	flagLogLevel  string
	flagTheme     string
	flagEphemeral bool
	flagQuiet     bool
)

// cfg is loaded once per invocation by the root PersistentPreRunE.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal finance tracker",
	Long:  "Track income, expenses and budgets per user, with alerts when a budget is exceeded.",
	// Errors are printed by cobra; usage only for flag/arg mistakes.
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Currency symbol for amounts")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "Color theme")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep all data in memory for this run")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// initRuntime loads .env and the config file, applies flag overrides, and
// sets up logging and the theme.
func initRuntime(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagCurrency != "" {
		cfg.General.Currency = flagCurrency
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagTheme != "" {
		cfg.Appearance.Theme = flagTheme
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, ok := theme.ByName(cfg.Appearance.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", cfg.Appearance.Theme, theme.Names())
	}
	theme.SetActive(cfg.Appearance.Theme)

	setupLogging(cmd.ErrOrStderr(), cfg.Log)
	return nil
}

func setupLogging(w io.Writer, lc config.LogConfig) {
	output := w
	if lc.Format == "human" {
		output = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(output).With().Timestamp().Logger()
}

// services bundles the stores every command works against.
type services struct {
	store   store.Store
	dir     *account.Directory
	txs     *ledger.Transactions
	budgets *ledger.Budgets
	cats    *category.Registry
}

// openServices opens the configured store and builds the directory, ledgers
// and category registry on top of it. Callers must Close the result.
func openServices() (*services, error) {
	var s store.Store
	if flagEphemeral {
		s = store.NewMemory()
	} else {
		db, err := store.Open(cfg.DBPath())
		if err != nil {
			return nil, err
		}
		s = db
	}
	log.Debug().Str("db", cfg.DBPath()).Bool("ephemeral", flagEphemeral).Msg("store opened")

	dir, err := account.New(s)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return &services{
		store:   s,
		dir:     dir,
		txs:     ledger.NewTransactions(s),
		budgets: ledger.NewBudgets(s),
		cats:    category.New(s),
	}, nil
}

func (sv *services) Close() error {
	return sv.store.Close()
}

// requireUser returns the logged-in user or ErrNotAuthenticated.
func (sv *services) requireUser() (*model.User, error) {
	u := sv.dir.Session()
	if u == nil {
		return nil, fmt.Errorf("%w Run `fintrack login` first.", model.ErrNotAuthenticated)
	}
	return u, nil
}

// withServices opens the services for the duration of fn.
func withServices(fn func(sv *services) error) error {
	sv, err := openServices()
	if err != nil {
		return err
	}
	defer func() { _ = sv.Close() }()
	return fn(sv)
}

func money(d decimal.Decimal) string {
	return cli.FormatMoney(cfg.General.Currency, d)
}

// infof prints an informational line unless --quiet is set.
func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}
