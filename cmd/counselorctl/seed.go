package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin account from the seed config",
	Long: `Create the admin account named by seed.admin_username and seed.admin_email.
The password comes from seed.admin_password or SEED_ADMIN_PASSWORD. An existing
account with that username or email is left as it is.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users := services.NewUserService(repositories.NewUserRepository(database))
		if err := seed.RequireDefaultAdmin(cmd.Context(), users, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %q is present\n", cfg.Seed.AdminUsername)
		return nil
	},
}
