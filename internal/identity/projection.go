package identity

import (
	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
)

// LinkedProviders returns provider name -> count of identities bound to the
// account. Exposed to the owning account only; the handler enforces that by
// always passing the authenticated caller's own id.
func LinkedProviders(database *gorm.DB, accountID string) (map[string]int64, error) {
	type row struct {
		Provider string
		N        int64
	}
	var rows []row
	err := database.Model(&models.ExternalIdentity{}).
		Select("provider, count(*) as n").
		Where("account_id = ?", accountID).
		Group("provider").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Provider] = r.N
	}
	return counts, nil
}
