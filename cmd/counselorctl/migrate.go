package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/counselorhub/counselorhub/internal/app/migrations"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, err := migrations.NewMigrator(database)
		if err != nil {
			return err
		}
		applied, err := migrator.Up(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if downSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		migrator, err := migrations.NewMigrator(database)
		if err != nil {
			return err
		}
		reverted, err := migrator.Down(cmd.Context(), downSteps)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", reverted)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, err := migrations.NewMigrator(database)
		if err != nil {
			return err
		}
		statuses, err := migrator.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
		for _, s := range statuses {
			appliedAt := "pending"
			if s.Applied && s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Version, s.Name, appliedAt)
		}
		return w.Flush()
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
