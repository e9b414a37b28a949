package merge

import (
	"log"
	"time"

	"github.com/kuip/nomen/internal/db/models"
	"github.com/kuip/nomen/internal/identity"
	"gorm.io/gorm"
)

// PrincipalDeleter is the one hook the merge takes into the auth gateway:
// deleting the absorbed principal (which cascades its sessions). It runs
// strictly after the core merge transaction has committed.
type PrincipalDeleter interface {
	DeletePrincipal(principalID string) error
}

// Result reports what a completed merge moved, for confirmation and audit.
type Result struct {
	Success              bool   `json:"success"`
	TargetAccountID      string `json:"target_account_id"`
	TargetProfileID      string `json:"target_profile_id"`
	SourceAccountID      string `json:"source_account_id"`
	IdentitiesMoved      int64  `json:"identities_moved"`
	AttributesMerged     int64  `json:"attributes_merged"`
	SourceAccountDeleted bool   `json:"source_account_deleted"`
}

// ExecuteWithToken consumes a merge token and performs the destructive
// merge: the requester survives, the caller (who controls the second login)
// is absorbed. The token is deleted before any precondition beyond its own
// validity is checked, so it is single-use even when the merge itself fails.
func ExecuteWithToken(database *gorm.DB, gateway PrincipalDeleter, token, callerAccountID string) (*Result, error) {
	var request models.MergeRequest

	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "token = ?", token).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		// Consume inside the same transaction as the read: two racing
		// executions cannot both claim the token.
		result := tx.Where("id = ? AND token = ?", request.ID, request.Token).
			Delete(&models.MergeRequest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if request.Expired(time.Now()) {
		return nil, ErrExpired
	}
	if request.RequesterAccountID == callerAccountID {
		return nil, ErrInvalidMerge
	}

	return Merge(database, gateway, request.RequesterAccountID, callerAccountID)
}

// Merge folds the source account into the target account atomically:
// identities are re-parented, attributes move under the target profile with
// preference stripped, the audit trail is appended, then the source profile
// and account are deleted. The gateway principal deletion happens last,
// outside the storage transaction, and never runs if the transaction fails.
func Merge(database *gorm.DB, gateway PrincipalDeleter, targetAccountID, sourceAccountID string) (*Result, error) {
	if targetAccountID == sourceAccountID {
		return nil, ErrInvalidMerge
	}

	result := &Result{
		TargetAccountID: targetAccountID,
		SourceAccountID: sourceAccountID,
	}

	err := database.Transaction(func(tx *gorm.DB) error {
		var target, source models.Account
		if err := tx.First(&target, "id = ?", targetAccountID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoProfile
			}
			return err
		}
		if err := tx.First(&source, "id = ?", sourceAccountID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNoProfile
			}
			return err
		}
		if target.ProfileID == nil || source.ProfileID == nil {
			return ErrNoProfile
		}
		if *target.ProfileID == *source.ProfileID {
			return ErrAlreadyMerged
		}
		targetProfileID, sourceProfileID := *target.ProfileID, *source.ProfileID
		result.TargetProfileID = targetProfileID

		// Re-parent every identity the source owns.
		moved := tx.Model(&models.ExternalIdentity{}).
			Where("account_id = ?", sourceAccountID).
			Update("account_id", targetAccountID)
		if moved.Error != nil {
			return moved.Error
		}
		result.IdentitiesMoved = moved.RowsAffected

		// Move attributes under the target profile. Preference is stripped
		// on every moved row; an absorbed account never silently overrides
		// the target's choices.
		merged := tx.Model(&models.ProfileAttribute{}).
			Where("profile_id = ?", sourceProfileID).
			Updates(map[string]interface{}{
				"profile_id":   targetProfileID,
				"is_preferred": false,
			})
		if merged.Error != nil {
			return merged.Error
		}
		result.AttributesMerged = merged.RowsAffected

		// Keys left without a preferred row (target had none) get the
		// deterministic bootstrap winner, then the aggregate is refreshed.
		if err := identity.BootstrapPreferences(tx, targetProfileID); err != nil {
			return err
		}
		if err := identity.RecomputeAggregate(tx, targetProfileID); err != nil {
			return err
		}

		var targetProfile models.Profile
		if err := tx.First(&targetProfile, "id = ?", targetProfileID).Error; err != nil {
			return err
		}
		if err := targetProfile.AppendMergedID(sourceAccountID); err != nil {
			return err
		}
		err := tx.Model(&targetProfile).
			Update("merged_account_ids", targetProfile.MergedAccountIDs).Error
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Profile{}, "id = ?", sourceProfileID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, "id = ?", sourceAccountID).Error
	})
	if err != nil {
		return nil, err
	}

	result.Success = true

	// Step 8: the external-collaborator touchpoint. The merge has already
	// committed; a gateway failure leaves a dangling principal to retry,
	// never a half-merged profile.
	if gateway != nil {
		if err := gateway.DeletePrincipal(sourceAccountID); err != nil {
			log.Printf("⚠️  merge committed but principal %s not deleted: %v", sourceAccountID, err)
		} else {
			result.SourceAccountDeleted = true
		}
	}
	return result, nil
}
