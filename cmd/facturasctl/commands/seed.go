package commands

import (
	"fmt"

	"facturas/internal/infra"
	"facturas/internal/service"

	"github.com/spf13/cobra"
)

var (
	seedEmail    string
	seedPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account if it does not exist",
	Long: `Create the administrator account. An existing account with the same
email is left untouched.

Examples:
  facturasctl seed-admin --storage sqlite
  facturasctl seed-admin --email root@example.com --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := requirePersistent(cfg); err != nil {
			return err
		}
		if seedEmail == "" {
			seedEmail = cfg.AdminEmail
		}
		if seedPassword == "" {
			seedPassword = cfg.AdminPassword
		}
		if len(seedPassword) < 6 {
			return fmt.Errorf("password must have at least 6 characters")
		}

		repos, _, err := infra.OpenStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		auth := service.NewAuthService(repos.Usuarios, service.NewAuditoriaService(repos.Logs), cfg)
		if err := auth.SeedAdmin(cmd.Context(), seedEmail, seedPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready\n", seedEmail)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "", "Admin email (default ADMIN_EMAIL)")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "Admin password (default ADMIN_PASSWORD)")
	rootCmd.AddCommand(seedAdminCmd)
}
