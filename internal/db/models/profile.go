package models

import (
	"encoding/json"
	"time"
)

// Profile is the consolidated, user-facing identity. DisplayName and
// PrimaryEmail are a read-optimized cache of the preferred attributes,
// never the source of truth for preference.
type Profile struct {
	ID               string    `gorm:"primaryKey" json:"id"` // UUID
	DisplayName      *string   `json:"display_name,omitempty"`
	PrimaryEmail     *string   `json:"primary_email,omitempty"`
	MergedAccountIDs string    `gorm:"default:'[]'" json:"-"` // JSON array, append-only audit trail
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MergedIDs decodes the absorbed-account audit trail.
func (p *Profile) MergedIDs() []string {
	var ids []string
	if err := json.Unmarshal([]byte(p.MergedAccountIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// AppendMergedID records an absorbed account id at the end of the trail.
func (p *Profile) AppendMergedID(accountID string) error {
	ids := append(p.MergedIDs(), accountID)
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.MergedAccountIDs = string(raw)
	return nil
}
