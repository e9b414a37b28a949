package cli

import (
	"fmt"

	"github.com/kuip/nomen/internal/db/models"
	"github.com/kuip/nomen/internal/identity"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts with their profile and linked identities",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB(cmd)
		if err != nil {
			return err
		}

		var accounts []models.Account
		if err := database.Order("created_at, id").Find(&accounts).Error; err != nil {
			return err
		}

		fmt.Printf("%-36s  %-36s  %s\n", "ACCOUNT", "PROFILE", "IDENTITIES")
		for _, account := range accounts {
			profileID := "-"
			if account.ProfileID != nil {
				profileID = *account.ProfileID
			}
			providers, err := identity.LinkedProviders(database, account.ID)
			if err != nil {
				return err
			}
			linked := ""
			for provider, count := range providers {
				if linked != "" {
					linked += " "
				}
				linked += fmt.Sprintf("%s=%d", provider, count)
			}
			fmt.Printf("%-36s  %-36s  %s\n", account.ID, profileID, linked)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}
