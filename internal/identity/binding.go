package identity

import (
	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureAccount returns the Account for a principal id, creating it if
// absent. The insert is a conflict-tolerant no-op when the row already
// exists, so concurrent callers (e.g. duplicate identity events arriving
// out of order) both succeed without racing a separate existence check.
func EnsureAccount(tx *gorm.DB, principalID string) (*models.Account, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Account{ID: principalID}).Error; err != nil {
		return nil, err
	}

	var account models.Account
	if err := tx.First(&account, "id = ?", principalID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
