package models

import "time"

// MergeRequest is one pending merge handshake. Rows are consumed (deleted)
// on confirm, reject, or when superseded by a newer request from the same
// requester; expiry is evaluated lazily at read time.
type MergeRequest struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	RequesterAccountID string    `gorm:"index;not null" json:"requester_account_id"`
	Token              string    `gorm:"uniqueIndex;not null" json:"-"` // unguessable, single-use
	CreatedAt          time.Time `json:"created_at"`
	ExpiresAt          time.Time `gorm:"index" json:"expires_at"`
}

// Expired reports whether the request is past its TTL at the given instant.
func (m *MergeRequest) Expired(now time.Time) bool {
	return !now.Before(m.ExpiresAt)
}
