/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ssargent/assetview/pkg/config"
	"github.com/ssargent/assetview/pkg/di"
	"github.com/ssargent/assetview/pkg/logging"
	"github.com/ssargent/assetview/pkg/record"
)

// container holds the injected factories
var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assetview",
	Short: "AssetView - stock dataset browser",
	Long: `AssetView loads a stock price dataset (Ticker, date, open, high, low,
close, volume) and lets you filter, sort and page through it from the
command line, a terminal browser, or a REST API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig reads the config file named by --config, or the default path
// when it exists, and applies command line overrides. Without a file the
// defaults are used.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if explicit || config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyOverrides(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies explicitly set flags onto cfg. Flags a command does
// not define are skipped.
func applyOverrides(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err != nil || flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		err = apply()
	}

	set("port", func() (e error) { cfg.Port, e = flags.GetInt("port"); return })
	set("bind", func() (e error) { cfg.Bind, e = flags.GetString("bind"); return })
	set("dataset", func() (e error) {
		cfg.Dataset.Path, e = flags.GetString("dataset")
		cfg.Dataset.URL = ""
		return
	})
	set("dataset-url", func() (e error) { cfg.Dataset.URL, e = flags.GetString("dataset-url"); return })
	set("delimiter", func() (e error) { cfg.Dataset.Delimiter, e = flags.GetString("delimiter"); return })
	set("page-size", func() (e error) { cfg.View.PageSize, e = flags.GetInt("page-size"); return })
	set("numeric-sort", func() (e error) { cfg.View.NumericSort, e = flags.GetBool("numeric-sort"); return })
	set("in-memory-sessions", func() (e error) { cfg.Sessions.InMemory, e = flags.GetBool("in-memory-sessions"); return })
	set("log-level", func() (e error) { cfg.Logging.Level, e = flags.GetString("log-level"); return })
	set("log-format", func() (e error) { cfg.Logging.Format, e = flags.GetString("log-format"); return })
	return err
}

// newLogger builds the logger described by cfg, writing to stderr
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
}

// newRecordStore builds an empty record store using the configured delimiter
func newRecordStore(cfg *config.Config, logger *slog.Logger) (*record.Store, error) {
	delimiter, err := cfg.Dataset.DelimiterRune()
	if err != nil {
		return nil, err
	}
	return record.NewStore(record.Options{Delimiter: delimiter}, logger), nil
}

// datasetSource asks the container for the configured dataset source
func datasetSource(cfg *config.Config) (record.Source, error) {
	if container == nil {
		return nil, fmt.Errorf("dependency container not initialized")
	}
	return container.GetSourceFactory().CreateSource(cfg.Dataset)
}
