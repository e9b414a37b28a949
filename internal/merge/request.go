package merge

import (
	"time"

	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
)

// DefaultRequestTTL bounds how long a merge handshake stays open. Long
// enough to complete a second OAuth login, short enough that a leaked token
// goes stale quickly.
const DefaultRequestTTL = 10 * time.Minute

// RequesterInfo is what the second party sees before consenting to a merge.
type RequesterInfo struct {
	DisplayName string `json:"requester_display_name"`
	Email       string `json:"requester_email"`
}

// CreateRequest opens a merge handshake for the requester and returns the
// pending request carrying its single-use token. Any prior request from the
// same requester is superseded (deleted), so a requester has at most one
// live token at a time and an old token cannot resurface later.
func CreateRequest(database *gorm.DB, requesterAccountID string, ttl time.Duration) (*models.MergeRequest, error) {
	if ttl <= 0 {
		ttl = DefaultRequestTTL
	}

	request := models.MergeRequest{
		RequesterAccountID: requesterAccountID,
		Token:              NewToken(),
		ExpiresAt:          time.Now().Add(ttl),
	}

	err := database.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("requester_account_id = ?", requesterAccountID).
			Delete(&models.MergeRequest{}).Error
		if err != nil {
			return err
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetRequesterInfo resolves a token to the requester's preferred display
// name and email so the second party can make an informed consent decision.
// Distinguishes missing token, expired token, and "caller re-authenticated
// as the requester" (nothing to merge).
func GetRequesterInfo(database *gorm.DB, token, callerAccountID string) (*RequesterInfo, error) {
	var request models.MergeRequest
	if err := database.First(&request, "token = ?", token).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if request.Expired(time.Now()) {
		return nil, ErrExpired
	}
	if request.RequesterAccountID == callerAccountID {
		return nil, ErrSameAccount
	}

	var requester models.Account
	if err := database.First(&requester, "id = ?", request.RequesterAccountID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound // requester vanished since the request was made
		}
		return nil, err
	}

	info := &RequesterInfo{}
	if requester.ProfileID != nil {
		var profile models.Profile
		if err := database.First(&profile, "id = ?", *requester.ProfileID).Error; err == nil {
			if profile.DisplayName != nil {
				info.DisplayName = *profile.DisplayName
			}
			if profile.PrimaryEmail != nil {
				info.Email = *profile.PrimaryEmail
			}
		}
	}
	return info, nil
}

// CancelRequest deletes the request for a token if one exists. Idempotent;
// either party may cancel.
func CancelRequest(database *gorm.DB, token string) error {
	return database.Where("token = ?", token).Delete(&models.MergeRequest{}).Error
}

// CleanupExpired removes merge requests past their TTL. Correctness never
// depends on this sweep (expiry is checked at read and consume time); it
// only keeps the table small.
func CleanupExpired(database *gorm.DB) (int64, error) {
	result := database.Where("expires_at <= ?", time.Now()).Delete(&models.MergeRequest{})
	return result.RowsAffected, result.Error
}
