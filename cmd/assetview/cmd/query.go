/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/record"
)

// queryOptions are the view parameters given on the command line
type queryOptions struct {
	SearchBy    string
	Term        string
	SortBy      string
	Order       string
	Page        int
	PageSize    int
	NumericSort bool
	JSON        bool
}

// params resolves the options into engine parameters
func (o queryOptions) params() (query.Params, error) {
	params := query.DefaultParams()

	if o.SearchBy != "" {
		field, err := record.ParseField(o.SearchBy)
		if err != nil {
			return params, fmt.Errorf("--search-by: %w", err)
		}
		params.FilterField = field
	}
	params.FilterTerm = o.Term

	if o.SortBy != "" {
		field, err := record.ParseField(o.SortBy)
		if err != nil {
			return params, fmt.Errorf("--sort-by: %w", err)
		}
		params.SortField = field
	}

	direction, err := query.ParseDirection(o.Order)
	if err != nil {
		return params, fmt.Errorf("--order: %w", err)
	}
	params.SortDirection = direction

	params.PageNumber = o.Page
	params.PageSize = o.PageSize
	return params, nil
}

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [file]",
	Short: "Filter, sort and page through the dataset once",
	Long: `Load the dataset, compute one page of the view and print it.

The dataset comes from the file argument, or from the configuration when
no file is given. Values are compared as text unless --numeric-sort is set.

Examples:
  assetview query ./all_stocks.csv --q aapl
  assetview query --search-by date --q 2020-01 --sort-by volume --order desc
  assetview query ./all_stocks.csv --page 3 --page-size 20 --json`,
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

		flags := cmd.Flags()
		opts := queryOptions{NumericSort: cfg.View.NumericSort, PageSize: cfg.View.PageSize}
		opts.SearchBy, _ = flags.GetString("search-by")
		opts.Term, _ = flags.GetString("q")
		opts.SortBy, _ = flags.GetString("sort-by")
		opts.Order, _ = flags.GetString("order")
		opts.Page, _ = flags.GetInt("page")
		opts.JSON, _ = flags.GetBool("json")

		if _, err := records.Load(cmd.Context(), source); err != nil {
			return err
		}
		return runQuery(cmd.OutOrStdout(), records.Records(), opts)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().String("search-by", "Ticker", "Field to filter on")
	queryCmd.Flags().String("q", "", "Case-insensitive substring the field must contain")
	queryCmd.Flags().String("sort-by", "Ticker", "Field to sort on")
	queryCmd.Flags().String("order", "asc", "Sort order: asc or desc")
	queryCmd.Flags().Int("page", 1, "1-based page number")
	queryCmd.Flags().Int("page-size", 50, "Rows per page")
	queryCmd.Flags().String("delimiter", "", "Field delimiter of the dataset (default \",\")")
	queryCmd.Flags().Bool("numeric-sort", false, "Sort numeric columns by value instead of as text")
	queryCmd.Flags().Bool("json", false, "Print the result as JSON")
}

// runQuery computes one view over records and writes it to out
func runQuery(out io.Writer, records []record.Record, opts queryOptions) error {
	params, err := opts.params()
	if err != nil {
		return err
	}

	engine := query.NewEngine(query.Options{NumericSort: opts.NumericSort})
	result, err := engine.Compute(records, params)
	if err != nil {
		return err
	}

	if opts.JSON {
		if result.Rows == nil {
			result.Rows = []record.Record{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Fprintln(out, renderTable(result))
	if result.TotalFiltered == 0 {
		fmt.Fprintln(out, "0 matches")
		return nil
	}
	fmt.Fprintf(out, "Page %d of %d (%d matches)\n", result.Params.PageNumber, result.TotalPages, result.TotalFiltered)
	return nil
}

func renderTable(result query.Result) string {
	fields := record.Fields()
	headers := make([]string, 0, len(fields))
	for _, f := range fields {
		label := f.Label()
		if f == result.Params.SortField {
			if result.Params.SortDirection == query.Descending {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers = append(headers, label)
	}

	rows := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		row := make([]string, 0, len(fields))
		for _, f := range fields {
			row = append(row, r.Get(f))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		Render()
}
