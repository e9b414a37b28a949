package cli

import (
	"fmt"

	"github.com/kuip/nomen/internal/merge"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired merge requests",
	Long: `Sweeps merge requests past their TTL. Expiry is always enforced lazily
at read and consume time, so this is housekeeping, not correctness.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB(cmd)
		if err != nil {
			return err
		}

		removed, err := merge.CleanupExpired(database)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired merge request(s)\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
