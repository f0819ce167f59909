package commands

import (
	"fmt"
	"time"

	"facturas/internal/infra"
	"facturas/internal/worker"

	"github.com/spf13/cobra"
)

var marcarVencidasCmd = &cobra.Command{
	Use:   "marcar-vencidas",
	Short: "Mark pending invoices past their due date as overdue",
	Long: `Run one pass of the overdue sweep the server performs periodically:
every "pendiente" invoice whose fecha_vencimiento has passed becomes "vencida".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := requirePersistent(cfg); err != nil {
			return err
		}
		repos, _, err := infra.OpenStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		n := worker.MarcarVencidas(cmd.Context(), repos.Facturas, time.Now())
		fmt.Fprintf(cmd.OutOrStdout(), "%d facturas marcadas como vencidas\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(marcarVencidasCmd)
}
