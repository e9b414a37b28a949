package merge

import (
	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
)

// Candidate describes the account behind a (provider, provider_user_id)
// pair, the discovery path for a merge that starts from a known login
// rather than a token.
type Candidate struct {
	CanMerge         bool   `json:"can_merge"`
	OtherAccountID   string `json:"other_account_id"`
	OtherProfileID   string `json:"other_profile_id,omitempty"`
	OtherDisplayName string `json:"other_display_name,omitempty"`
	OtherEmail       string `json:"other_email,omitempty"`
}

// CheckCandidate looks up whether an external identity belongs to a
// different account the caller could merge with. Purely a read; the
// destructive merge itself still requires the token handshake.
func CheckCandidate(database *gorm.DB, callerAccountID, provider, providerUserID string) (*Candidate, error) {
	var ident models.ExternalIdentity
	err := database.First(&ident, "provider = ? AND provider_user_id = ?", provider, providerUserID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ident.AccountID == callerAccountID {
		return nil, ErrAlreadyOwned
	}

	candidate := &Candidate{OtherAccountID: ident.AccountID}

	var other models.Account
	if err := database.First(&other, "id = ?", ident.AccountID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return candidate, nil // identity orphaned; nothing mergeable
		}
		return nil, err
	}
	if other.ProfileID == nil {
		return candidate, nil
	}
	candidate.OtherProfileID = *other.ProfileID

	var caller models.Account
	if err := database.First(&caller, "id = ?", callerAccountID).Error; err != nil {
		return nil, err
	}
	candidate.CanMerge = caller.ProfileID == nil || *caller.ProfileID != *other.ProfileID

	var profile models.Profile
	if err := database.First(&profile, "id = ?", *other.ProfileID).Error; err == nil {
		if profile.DisplayName != nil {
			candidate.OtherDisplayName = *profile.DisplayName
		}
		if profile.PrimaryEmail != nil {
			candidate.OtherEmail = *profile.PrimaryEmail
		}
	}
	return candidate, nil
}
