package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Consolidate converts one external identity's claims into per-identity
// ProfileAttribute rows and keeps the profile's preference and aggregate
// state correct. It must run inside the same transaction as the identity
// write that triggered it, so a failure rolls both back together.
//
// Steps: ensure the account exists, create the profile on first contact,
// upsert one attribute row per present claim (never flipping preference on
// refresh), bootstrap preference for any key that has none, then write the
// preferred values through to the profile aggregate.
func Consolidate(tx *gorm.DB, ident *models.ExternalIdentity) error {
	account, err := EnsureAccount(tx, ident.AccountID)
	if err != nil {
		return err
	}

	candidates := ExtractAttributes(ident.ClaimsMap())

	// First identity ever linked creates the profile, seeded from its claims.
	if account.ProfileID == nil {
		profile := models.Profile{ID: uuid.New().String(), MergedAccountIDs: "[]"}
		if name, ok := candidates[models.AttrDisplayName]; ok {
			profile.DisplayName = &name
		}
		if email, ok := candidates[models.AttrPrimaryEmail]; ok {
			profile.PrimaryEmail = &email
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		if err := tx.Model(account).Update("profile_id", profile.ID).Error; err != nil {
			return err
		}
		account.ProfileID = &profile.ID
	}
	profileID := *account.ProfileID

	for _, key := range models.AttributeKeys {
		value, ok := candidates[key]
		if !ok {
			continue // absent claim: no row, no overwrite
		}
		identityID := ident.ID
		attr := models.ProfileAttribute{
			ProfileID:      profileID,
			IdentityID:     &identityID,
			AttributeKey:   key,
			AttributeValue: value,
			SourceProvider: ident.Provider,
		}
		// Re-authentication with changed claims overwrites the value in
		// place; preference is controlled by the user, never by refresh.
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "identity_id"}, {Name: "attribute_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"attribute_value": value,
				"source_provider": ident.Provider,
				"updated_at":      time.Now(),
			}),
		}).Create(&attr).Error
		if err != nil {
			return err
		}
	}

	if err := BootstrapPreferences(tx, profileID); err != nil {
		return err
	}
	return RecomputeAggregate(tx, profileID)
}

// BootstrapPreferences picks a deterministic preferred row for every
// attribute key that currently has none: earliest created wins, lowest id
// breaks ties. Keys with an existing preferred row are left alone.
func BootstrapPreferences(tx *gorm.DB, profileID string) error {
	for _, key := range models.AttributeKeys {
		var preferred int64
		err := tx.Model(&models.ProfileAttribute{}).
			Where("profile_id = ? AND attribute_key = ? AND is_preferred = ?", profileID, key, true).
			Count(&preferred).Error
		if err != nil {
			return err
		}
		if preferred > 0 {
			continue
		}

		var winner models.ProfileAttribute
		err = tx.Where("profile_id = ? AND attribute_key = ?", profileID, key).
			Order("created_at, id").
			First(&winner).Error
		if err == gorm.ErrRecordNotFound {
			continue // no candidates for this key yet
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&winner).Update("is_preferred", true).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecomputeAggregate refreshes the profile's denormalized display_name and
// primary_email from the preferred attribute rows. Keys without a preferred
// row leave the cached value unchanged.
func RecomputeAggregate(tx *gorm.DB, profileID string) error {
	updates := map[string]interface{}{}
	for _, key := range []string{models.AttrDisplayName, models.AttrPrimaryEmail} {
		var attr models.ProfileAttribute
		err := tx.Where("profile_id = ? AND attribute_key = ? AND is_preferred = ?", profileID, key, true).
			First(&attr).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return err
		}
		updates[key] = attr.AttributeValue
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&models.Profile{}).Where("id = ?", profileID).Updates(updates).Error
}
