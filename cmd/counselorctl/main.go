// Package main provides the counselorctl maintenance CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/counselorhub/counselorhub/internal/bootstrap"
	"github.com/counselorhub/counselorhub/internal/config"
	"github.com/counselorhub/counselorhub/internal/db"
)

var (
	// configFile is set by the --config flag.
	configFile string

	cfg      *config.Config
	database *db.Database
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "counselorctl",
	Short: "Maintenance commands for the CounselorHub database",
	Long: `counselorctl applies and rolls back schema migrations and seeds the
default admin account, using the same configuration as the API server.`,
	SilenceUsage:      true,
	PersistentPreRunE: openDatabase,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeDatabase()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: $CONFIG_PATH or configs/config.yaml)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// openDatabase loads config and connects before every subcommand.
func openDatabase(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.ResolvePath()
	}

	var err error
	cfg, err = config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	bootstrap.ConfigureLogger(cfg)

	database, err = db.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	return nil
}

func closeDatabase() error {
	if database != nil {
		return database.Close()
	}
	return nil
}
