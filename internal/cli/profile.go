package cli

import (
	"fmt"

	"github.com/kuip/nomen/internal/db/models"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile <account-id>",
	Short: "Dump a profile's attributes and preference state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB(cmd)
		if err != nil {
			return err
		}

		var account models.Account
		if err := database.First(&account, "id = ?", args[0]).Error; err != nil {
			return fmt.Errorf("account %s not found", args[0])
		}
		if account.ProfileID == nil {
			fmt.Println("Account has no profile yet")
			return nil
		}

		var profile models.Profile
		if err := database.First(&profile, "id = ?", *account.ProfileID).Error; err != nil {
			return err
		}

		display, email := "-", "-"
		if profile.DisplayName != nil {
			display = *profile.DisplayName
		}
		if profile.PrimaryEmail != nil {
			email = *profile.PrimaryEmail
		}
		fmt.Printf("Profile %s\n", profile.ID)
		fmt.Printf("  display_name:  %s\n", display)
		fmt.Printf("  primary_email: %s\n", email)
		if merged := profile.MergedIDs(); len(merged) > 0 {
			fmt.Printf("  absorbed:      %v\n", merged)
		}

		var attributes []models.ProfileAttribute
		err = database.Where("profile_id = ?", profile.ID).
			Order("attribute_key, created_at, id").
			Find(&attributes).Error
		if err != nil {
			return err
		}

		fmt.Printf("\n%-4s  %-14s  %-30s  %-10s  %s\n", "ID", "KEY", "VALUE", "PROVIDER", "PREFERRED")
		for _, attr := range attributes {
			preferred := ""
			if attr.IsPreferred {
				preferred = "*"
			}
			fmt.Printf("%-4d  %-14s  %-30s  %-10s  %s\n",
				attr.ID, attr.AttributeKey, attr.AttributeValue, attr.SourceProvider, preferred)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
