package models

import "time"

// Account is the internal record bound 1:1 to an auth-gateway principal.
// It is created exactly once, the first time a principal authenticates,
// and destroyed only as the source side of a completed merge.
type Account struct {
	ID        string    `gorm:"primaryKey" json:"id"` // principal UUID
	ProfileID *string   `gorm:"index" json:"profile_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
