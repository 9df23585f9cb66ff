package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txanalyser.yaml")
	content := "data_file: /srv/ledger/transactions.csv\n" +
		"metrics_file: /var/lib/node_exporter/txanalyser.prom\n" +
		"log:\n  level: debug\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		DataFile:    "/srv/ledger/transactions.csv",
		MetricsFile: "/var/lib/node_exporter/txanalyser.prom",
		Log:         LogConfig{Level: "debug", Format: "json"},
	}, got)
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "transactions.csv", cfg.DataFile)
	assert.Empty(t, cfg.MetricsFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txanalyser.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "transactions.csv", cfg.DataFile)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txanalyser.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_file: from-file.csv\nlog:\n  level: warn\n"), 0o644))

	t.Setenv("TXANALYSER_DATA_FILE", "from-env.csv")
	t.Setenv("TXANALYSER_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.DataFile)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txanalyser.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}
