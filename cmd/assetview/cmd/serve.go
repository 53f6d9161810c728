/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/assetview/pkg/api"
	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/session"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Load the dataset and start the AssetView REST API server.

Clients log in with the configured email and password and then filter,
sort and page through the dataset. Each session keeps its own view.
The server stops gracefully on SIGINT or SIGTERM.

Examples:
  assetview serve
  assetview serve --port 9000 --dataset ./all_stocks.csv
  assetview serve --dataset-url https://example.com/all_stocks.csv --in-memory-sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		source, err := datasetSource(cfg)
		if err != nil {
			return err
		}
		records, err := newRecordStore(cfg, logger)
		if err != nil {
			return err
		}

		sessionStore, err := container.GetSessionStoreFactory().OpenSessionStore(cfg.Sessions)
		if err != nil {
			return err
		}
		defer sessionStore.Close()

		defaultView := query.DefaultParams()
		defaultView.PageSize = cfg.View.PageSize
		sessions := session.NewManager(sessionStore, session.Credentials{
			Email:    cfg.Security.Email,
			Password: cfg.Security.Password,
		}, cfg.Security.SessionTTL, defaultView)

		deps := api.Dependencies{
			Records:  records,
			Engine:   query.NewEngine(query.Options{NumericSort: cfg.View.NumericSort}),
			Sessions: sessions,
			Source:   source,
			Logger:   logger,
		}
		serverConfig := api.ServerConfig{
			Port:     cfg.Port,
			Bind:     cfg.Bind,
			PageSize: cfg.View.PageSize,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting AssetView",
			"dataset", source.String(),
			"addr", serverConfig.Addr(),
			"numeric_sort", cfg.View.NumericSort)

		serverStarter := container.GetServerFactory().CreateServerStarter()
		if err := serverStarter.StartServer(ctx, deps, serverConfig); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("dataset", "", "Path to the dataset CSV file")
	serveCmd.Flags().String("dataset-url", "", "URL to fetch the dataset from (overrides --dataset)")
	serveCmd.Flags().String("delimiter", "", "Field delimiter of the dataset (default \",\")")
	serveCmd.Flags().Int("page-size", 50, "Rows per page")
	serveCmd.Flags().Bool("numeric-sort", false, "Sort numeric columns by value instead of as text")
	serveCmd.Flags().Bool("in-memory-sessions", false, "Keep sessions in memory instead of on disk")
}
