package models

import "time"

// Principal is the auth-gateway's own user record. The consolidation core
// never touches this table directly; it reacts to gateway events and, during
// a destructive merge, asks the gateway to delete the absorbed principal.
type Principal struct {
	ID           string    `gorm:"primaryKey" json:"id"` // UUID, shared with Account.ID
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `json:"-"` // empty for OAuth-only principals
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
