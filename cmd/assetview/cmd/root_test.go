package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/assetview/pkg/config"
	"github.com/ssargent/assetview/pkg/di"
	"github.com/ssargent/assetview/pkg/record"
)

// newTestCommand builds a command with the same flags as serve plus the
// persistent root flags
func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("log-format", "", "")
	cmd.Flags().IntP("port", "p", 8080, "")
	cmd.Flags().String("bind", "127.0.0.1", "")
	cmd.Flags().String("dataset", "", "")
	cmd.Flags().String("dataset-url", "", "")
	cmd.Flags().String("delimiter", "", "")
	cmd.Flags().Int("page-size", 50, "")
	cmd.Flags().Bool("numeric-sort", false, "")
	cmd.Flags().Bool("in-memory-sessions", false, "")
	return cmd
}

func TestApplyOverrides(t *testing.T) {
	t.Run("unchanged flags keep config values", func(t *testing.T) {
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Parse(nil))

		cfg := config.DefaultConfig()
		cfg.Port = 9000
		require.NoError(t, applyOverrides(cmd.Flags(), cfg))
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, 50, cfg.View.PageSize)
	})

	t.Run("changed flags win", func(t *testing.T) {
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Parse([]string{
			"-p", "9090",
			"--bind", "0.0.0.0",
			"--delimiter", ";",
			"--page-size", "25",
			"--numeric-sort",
			"--in-memory-sessions",
			"--log-level", "debug",
			"--log-format", "json",
		}))

		cfg := config.DefaultConfig()
		require.NoError(t, applyOverrides(cmd.Flags(), cfg))
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "0.0.0.0", cfg.Bind)
		assert.Equal(t, ";", cfg.Dataset.Delimiter)
		assert.Equal(t, 25, cfg.View.PageSize)
		assert.True(t, cfg.View.NumericSort)
		assert.True(t, cfg.Sessions.InMemory)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("dataset path clears configured url", func(t *testing.T) {
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Parse([]string{"--dataset", "./local.csv"}))

		cfg := config.DefaultConfig()
		cfg.Dataset.URL = "https://example.com/stocks.csv"
		require.NoError(t, applyOverrides(cmd.Flags(), cfg))
		assert.Equal(t, "./local.csv", cfg.Dataset.Path)
		assert.Empty(t, cfg.Dataset.URL)
	})

	t.Run("flags the command lacks are skipped", func(t *testing.T) {
		cmd := &cobra.Command{Use: "bare"}
		cmd.Flags().Int("page-size", 50, "")
		require.NoError(t, cmd.Flags().Parse([]string{"--page-size", "10"}))

		cfg := config.DefaultConfig()
		require.NoError(t, applyOverrides(cmd.Flags(), cfg))
		assert.Equal(t, 10, cfg.View.PageSize)
		assert.Equal(t, 8080, cfg.Port)
	})
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("explicit file with overrides", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		fileCfg := config.DefaultConfig()
		fileCfg.Port = 7000
		fileCfg.View.PageSize = 20
		require.NoError(t, config.SaveConfig(fileCfg, configPath))

		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Parse([]string{"--config", configPath, "--page-size", "5"}))

		cfg, err := loadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Port)
		assert.Equal(t, 5, cfg.View.PageSize)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Parse([]string{"--config", filepath.Join(tmpDir, "nope.yaml")}))

		_, err := loadConfig(cmd)
		assert.Error(t, err)
	})

	t.Run("invalid override", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "valid.yaml")
		require.NoError(t, config.SaveConfig(config.DefaultConfig(), configPath))

		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Parse([]string{"--config", configPath, "--page-size", "0"}))

		_, err := loadConfig(cmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestNewRecordStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dataset.Delimiter = "tab"

	store, err := newRecordStore(cfg, nil)
	require.NoError(t, err)

	records, err := store.Ingest(strings.NewReader("Ticker\tdate\nAAPL\t2020-01-02\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2020-01-02", records[0].Get(record.Date))

	cfg.Dataset.Delimiter = "::"
	_, err = newRecordStore(cfg, nil)
	assert.Error(t, err)
}

func TestDatasetSource(t *testing.T) {
	SetContainer(di.NewContainer())

	cfg := config.DefaultConfig()
	cfg.Dataset.Path = filepath.Join(os.TempDir(), "stocks.csv")
	source, err := datasetSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Dataset.Path, source.String())

	cfg.Dataset.URL = "https://example.com/stocks.csv"
	source, err = datasetSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Dataset.URL, source.String())
}
