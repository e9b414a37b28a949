package models

import "time"

// Attribute keys consolidated from provider claims. The set is fixed; rows
// never carry any other key.
const (
	AttrDisplayName  = "display_name"
	AttrPrimaryEmail = "primary_email"
	AttrUsername     = "username"
	AttrAvatarURL    = "avatar_url"
)

// AttributeKeys lists the fixed consolidation keys in aggregate order.
var AttributeKeys = []string{AttrDisplayName, AttrPrimaryEmail, AttrUsername, AttrAvatarURL}

// ProfileAttribute is one candidate value for a profile-level field, scoped
// to the identity that supplied it. At most one row per (profile, key) has
// IsPreferred set; at most one row exists per (identity, key). The
// autoincrement ID doubles as the deterministic tie-break for preference
// bootstrap (earliest created, then lowest id).
//
// IdentityID is null only for legacy rows imported before identity scoping;
// those are keyed by (profile, key, source provider) instead.
type ProfileAttribute struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProfileID      string    `gorm:"index;not null" json:"profile_id"`
	IdentityID     *string   `gorm:"uniqueIndex:idx_identity_attr" json:"identity_id,omitempty"`
	AttributeKey   string    `gorm:"uniqueIndex:idx_identity_attr;not null" json:"attribute_key"`
	AttributeValue string    `gorm:"not null" json:"attribute_value"` // never the empty string
	SourceProvider string    `json:"source_provider"`
	IsPreferred    bool      `gorm:"default:false" json:"is_preferred"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
