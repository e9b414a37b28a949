package models

import (
	"encoding/json"
	"time"
)

// ExternalIdentity is one bound external login method (an OAuth provider or
// the password provider) with its provider-supplied claims. Only Claims is
// mutable; it is refreshed on re-authentication.
type ExternalIdentity struct {
	ID             string    `gorm:"primaryKey" json:"id"` // UUID
	AccountID      string    `gorm:"index;not null" json:"account_id"`
	Provider       string    `gorm:"uniqueIndex:idx_provider_subject;not null" json:"provider"`
	ProviderUserID string    `gorm:"uniqueIndex:idx_provider_subject;not null" json:"provider_user_id"`
	Claims         string    `gorm:"type:text;default:'{}'" json:"-"` // JSON map<string,string>
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ClaimsMap decodes the provider claims bag. A corrupt bag decodes to empty
// rather than failing, so a bad provider payload cannot wedge consolidation.
func (e *ExternalIdentity) ClaimsMap() map[string]string {
	claims := map[string]string{}
	if e.Claims != "" {
		_ = json.Unmarshal([]byte(e.Claims), &claims)
	}
	return claims
}

// SetClaims encodes and stores the claims bag.
func (e *ExternalIdentity) SetClaims(claims map[string]string) error {
	raw, err := json.Marshal(claims)
	if err != nil {
		return err
	}
	e.Claims = string(raw)
	return nil
}
