package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/daemon"
)

type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataDir   string    `json:"data_dir"`
}

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
	flagDaemonDetach   bool
	flagDaemonPIDFile  string
	flagDaemonLogFile  string
	flagDaemonBuffer   int
	flagDaemonChild    bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background watcher with HTTP/SSE endpoints",
	Long: "Watch the data file for logins, logouts and ledger changes made by any fintrack\n" +
		"process, and serve them at /v1/status, /v1/events, /v1/stream and /metrics.",
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", "", "PID file path (default in the data directory)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", "", "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonSettings are the daemon flags resolved against the loaded config.
type daemonSettings struct {
	addr     string
	interval time.Duration
	buffer   int
	files    daemonFiles
}

func resolveDaemonSettings() daemonSettings {
	ds := daemonSettings{
		addr:     cfg.Daemon.Addr,
		interval: cfg.PollInterval(),
		buffer:   cfg.Daemon.EventsBuffer,
		files:    newDaemonFiles(cfg.DataDir(), flagDaemonPIDFile, flagDaemonLogFile),
	}
	if flagDaemonAddr != "" {
		ds.addr = flagDaemonAddr
	}
	if flagDaemonInterval > 0 {
		ds.interval = flagDaemonInterval
	}
	if flagDaemonBuffer > 0 {
		ds.buffer = flagDaemonBuffer
	}
	return ds
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}
	if flagEphemeral {
		return errors.New("the daemon watches the data file; --ephemeral is not supported")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

func startDaemonDetached() error {
	ds := resolveDaemonSettings()
	if err := ds.files.ensureNotRunning(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	logf, err := ds.files.openLog()
	if err != nil {
		return err
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", ds.files.pid)
	fmt.Printf("  API: http://%s/v1/status\n", ds.addr)
	fmt.Printf("  Log: %s\n", ds.files.log)
	return nil
}

func runDaemonForeground() error {
	ds := resolveDaemonSettings()
	if err := ds.files.ensureNotRunning(); err != nil {
		return err
	}

	err := ds.files.claim(daemonRuntimeState{
		PID:       os.Getpid(),
		Addr:      ds.addr,
		StartedAt: time.Now(),
		DataDir:   cfg.DataDir(),
	})
	if err != nil {
		return err
	}
	defer ds.files.release()

	// The daemon logs at info unless a level was asked for explicitly.
	if flagLogLevel == "" && zerolog.GlobalLevel() > zerolog.InfoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return withServices(func(sv *services) error {
		svc := daemon.New(daemon.Config{
			Addr:         ds.addr,
			Interval:     ds.interval,
			EventsBuffer: ds.buffer,
			DataDir:      cfg.DataDir(),
			Currency:     cfg.General.Currency,
		}, sv.dir, sv.txs, sv.budgets)

		fmt.Printf("  fintrack daemon listening on http://%s\n", ds.addr)
		fmt.Printf("  Polling every %s from %s\n", ds.interval, cfg.DBPath())
		fmt.Printf("  Stop with: fintrack daemon stop --pid-file %s\n", ds.files.pid)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	ds := resolveDaemonSettings()
	addr := ds.addr
	pid, err := ds.files.readPID()
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	if st, err := ds.files.readState(); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status request
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	if st.Summary.LoggedIn {
		fmt.Printf("  User: %s\n", st.Summary.User)
		fmt.Printf("  Transactions: %d  Budgets: %d\n", st.Summary.Transactions, st.Summary.Budgets)
		fmt.Printf("  Balance: %s\n", money(st.Summary.Balance))
		fmt.Printf("  Alerts: %d\n", len(st.Summary.Alerts))
	} else {
		fmt.Printf("  User: nobody logged in\n")
	}
	fmt.Printf("  Stream subscribers: %d\n", st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	files := resolveDaemonSettings().files
	pid, err := files.readPID()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			files.release()
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// daemonFiles are the pid, state and log files of one daemon. They default to
// fintrackd.pid, fintrackd.json and fintrackd.log in the data directory.
type daemonFiles struct {
	pid   string
	state string
	log   string
}

func newDaemonFiles(dataDir, pidFile, logFile string) daemonFiles {
	if pidFile == "" {
		pidFile = filepath.Join(dataDir, "fintrackd.pid")
	}
	if logFile == "" {
		logFile = filepath.Join(dataDir, "fintrackd.log")
	}
	return daemonFiles{
		pid:   pidFile,
		state: strings.TrimSuffix(pidFile, filepath.Ext(pidFile)) + ".json",
		log:   logFile,
	}
}

// ensureNotRunning fails if the pid file names a live process and clears it
// otherwise.
func (f daemonFiles) ensureNotRunning() error {
	pid, err := f.readPID()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	f.release()
	return nil
}

// claim records st as the running daemon. The state file is best effort.
func (f daemonFiles) claim(st daemonRuntimeState) error {
	if err := os.MkdirAll(filepath.Dir(f.pid), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(f.pid, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if data, err := json.MarshalIndent(st, "", "  "); err == nil {
		_ = os.WriteFile(f.state, append(data, '\n'), 0o600)
	}
	return nil
}

func (f daemonFiles) release() {
	_ = os.Remove(f.pid)
	_ = os.Remove(f.state)
}

func (f daemonFiles) readPID() (int, error) {
	data, err := os.ReadFile(f.pid)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", f.pid)
	}
	return pid, nil
}

func (f daemonFiles) readState() (daemonRuntimeState, error) {
	var st daemonRuntimeState
	data, err := os.ReadFile(f.state)
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func (f daemonFiles) openLog() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(f.log), 0o750); err != nil {
		return nil, fmt.Errorf("create daemon log directory: %w", err)
	}
	logf, err := os.OpenFile(f.log, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open daemon log file: %w", err)
	}
	return logf, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
