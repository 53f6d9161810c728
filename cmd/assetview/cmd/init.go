/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/assetview/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an AssetView configuration file",
	Long: `Write a configuration file with default settings.

The file records the dataset location, the login credentials and the
session store. With --generate-password a random password replaces the
default one and is printed once.

Examples:
  assetview init
  assetview init --dataset ./all_stocks.csv --generate-password
  assetview init --config ./assetview.yaml --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataset, _ := cmd.Flags().GetString("dataset")
		generatePassword, _ := cmd.Flags().GetBool("generate-password")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		_, err := initConfig(cmd.OutOrStdout(), configPath, dataset, generatePassword, force)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("dataset", "", "Path to the dataset CSV file")
	initCmd.Flags().Bool("generate-password", false, "Replace the default login password with a random one")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}

// initConfig writes a fresh configuration to configPath. An existing file
// is left alone unless force is set.
func initConfig(out io.Writer, configPath, dataset string, generatePassword, force bool) (*config.Config, error) {
	if config.ConfigExists(configPath) && !force {
		return nil, fmt.Errorf("configuration already exists at %s, use --force to overwrite", configPath)
	}

	cfg, err := config.BootstrapConfig(configPath, dataset, generatePassword)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "✅ Configuration created at %s\n", configPath)
	fmt.Fprintf(out, "Dataset: %s\n", cfg.Dataset.Path)
	fmt.Fprintf(out, "Login: %s\n", cfg.Security.Email)
	if generatePassword {
		fmt.Fprintf(out, "Password: %s\n", cfg.Security.Password)
		fmt.Fprintf(out, "\n⚠️  Store this password securely! It is also saved in %s\n", configPath)
	}
	fmt.Fprintf(out, "\nStart the server with:\n  assetview serve --config %s\n", configPath)
	return cfg, nil
}
