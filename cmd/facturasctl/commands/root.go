package commands

import (
	"fmt"
	"os"
	"time"

	"facturas/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	storageDriver string
	databaseURL   string
	verbose       bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "facturasctl",
	Short: "Maintenance CLI for the facturas API",
	Long: `facturasctl runs one-off tasks against the same storage the API uses.
Configuration is read from the environment (and .env) exactly like the server;
flags override it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageDriver, "storage", "", "Storage driver: postgres or sqlite (default STORAGE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "PostgreSQL URL (default DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// loadConfig reads the environment and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if storageDriver != "" {
		cfg.StorageDriver = storageDriver
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	return cfg, nil
}

// requirePersistent rejects the in-memory store, which a separate process
// cannot reach.
func requirePersistent(cfg *config.Config) error {
	if cfg.StorageDriver == config.StorageMemory {
		return fmt.Errorf("storage %q is per-process; use --storage postgres or sqlite", cfg.StorageDriver)
	}
	return nil
}
