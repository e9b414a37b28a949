package cli

import (
	"github.com/kuip/nomen/internal/config"
	"github.com/kuip/nomen/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "nomenctl",
	Short: "Admin CLI for the nomen identity-consolidation service",
	Long: `nomenctl inspects and maintains a nomen database: listing accounts,
dumping profile attribute state, and sweeping expired merge requests.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to database file (overrides NOMEN_DB_PATH)")
}

// openDB resolves the database path (flag > config) and opens the store.
func openDB(cmd *cobra.Command) (*gorm.DB, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		dbPath = cfg.DBPath
	}
	return db.InitDB(dbPath)
}
