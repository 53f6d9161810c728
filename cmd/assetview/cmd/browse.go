/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/tui"
	"github.com/ssargent/assetview/pkg/view"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse [file]",
	Short: "Browse the dataset in the terminal",
	Long: `Load the dataset and open an interactive table.

Press / to type a filter term, tab to change the searched column, 1-7 to
sort on a column (again to reverse), n and p to page, q to quit.

Examples:
  assetview browse ./all_stocks.csv
  assetview browse --numeric-sort --page-size 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Dataset.Path = args[0]
			cfg.Dataset.URL = ""
		}
		// Log output would draw over the alternate screen.
		if !cmd.Flags().Changed("log-level") {
			cfg.Logging.Level = "error"
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		source, err := datasetSource(cfg)
		if err != nil {
			return err
		}
		records, err := newRecordStore(cfg, logger)
		if err != nil {
			return err
		}
		snap, err := records.Load(cmd.Context(), source)
		if err != nil {
			return err
		}
		if len(snap.Warnings) > 0 {
			cmd.PrintErrf("%d rows had warnings while loading %s\n", len(snap.Warnings), source)
		}

		engine := query.NewEngine(query.Options{NumericSort: cfg.View.NumericSort})
		controller, err := view.NewController(records, engine, view.WithPageSize(cfg.View.PageSize))
		if err != nil {
			return err
		}

		program := tea.NewProgram(tui.NewModel(controller, source.String()), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("browser failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().String("dataset-url", "", "URL to fetch the dataset from")
	browseCmd.Flags().String("delimiter", "", "Field delimiter of the dataset (default \",\")")
	browseCmd.Flags().Int("page-size", 50, "Rows per page")
	browseCmd.Flags().Bool("numeric-sort", false, "Sort numeric columns by value instead of as text")
}
