package identity

import (
	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
)

// SetPreferredAttribute makes one attribute row the preferred value for its
// (profile, key) pair. The caller must own the profile the attribute belongs
// to. The unset-all/set-one flip and the aggregate write-through happen in
// one transaction, so there is no window with zero or two preferred rows.
func SetPreferredAttribute(database *gorm.DB, attributeID uint, callerAccountID string) error {
	return database.Transaction(func(tx *gorm.DB) error {
		var attr models.ProfileAttribute
		if err := tx.First(&attr, "id = ?", attributeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		var caller models.Account
		if err := tx.First(&caller, "id = ?", callerAccountID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUnauthorized
			}
			return err
		}
		if caller.ProfileID == nil || *caller.ProfileID != attr.ProfileID {
			return ErrUnauthorized
		}

		err := tx.Model(&models.ProfileAttribute{}).
			Where("profile_id = ? AND attribute_key = ?", attr.ProfileID, attr.AttributeKey).
			Update("is_preferred", false).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&attr).Update("is_preferred", true).Error; err != nil {
			return err
		}

		// Aggregate write-through applies to the two cached keys only.
		if attr.AttributeKey == models.AttrDisplayName || attr.AttributeKey == models.AttrPrimaryEmail {
			err := tx.Model(&models.Profile{}).
				Where("id = ?", attr.ProfileID).
				Update(attr.AttributeKey, attr.AttributeValue).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
