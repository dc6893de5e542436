package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FINTRACK_DATA_DIR", "FINTRACK_CURRENCY", "FINTRACK_DAEMON_ADDR", "FINTRACK_LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, filepath.Join("/data", "fintrack", "fintrack.db"), cfg.DBPath())
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.False(t, Exists())
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.General.Currency = "$"
	cfg.General.DataDir = "/tmp/ft"
	cfg.Appearance.Theme = "tokyo-night"
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, "/tmp/ft/fintrack.db", got.DBPath())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("FINTRACK_DATA_DIR", "/srv/fintrack")
	t.Setenv("FINTRACK_CURRENCY", "€")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/fintrack", cfg.DataDir())
	assert.Equal(t, "€", cfg.General.Currency)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	clearEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fintrack"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fintrack", "config.toml"), []byte("[general\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.Currency = " "
	cfg.Daemon.Addr = "localhost"
	cfg.Daemon.IntervalSec = 0
	cfg.Daemon.EventsBuffer = 0
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"currency", "daemon addr", "interval", "events buffer", "log level", "log format"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg = DefaultConfig()
	cfg.Daemon.Addr = "127.0.0.1:99999"
	assert.ErrorContains(t, cfg.Validate(), "daemon port")
}
