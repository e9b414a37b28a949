// Package authgw is a thin in-process rendition of the external auth system
// the consolidation core collaborates with. It owns principals, credentials,
// sessions and the ExternalIdentity write path; every identity write invokes
// the consolidation engine synchronously, inside the same transaction.
package authgw

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/kuip/nomen/internal/db"
	"github.com/kuip/nomen/internal/db/models"
	"github.com/kuip/nomen/internal/identity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotAuthenticated   = errors.New("authgw: no valid caller identity")
	ErrInvalidCredentials = errors.New("authgw: invalid email or password")
	ErrEmailTaken         = errors.New("authgw: email already registered")
)

// Gateway fronts the principal/identity store. Sessions are stateless JWTs;
// "cascading" session invalidation on principal deletion falls out of the
// middleware re-resolving the account on every request.
type Gateway struct {
	db     *gorm.DB
	secret []byte
}

// New builds a gateway over the shared store, reading the persisted session
// signing secret generated at first startup.
func New(database *gorm.DB) *Gateway {
	secret, err := hex.DecodeString(db.GetSessionSecret(database))
	if err != nil || len(secret) == 0 {
		secret = []byte(db.GetSessionSecret(database))
	}
	return &Gateway{db: database, secret: secret}
}

// UpsertIdentity is the identity event intake: it creates or refreshes the
// ExternalIdentity for (provider, providerUserID) under the given principal
// and runs consolidation in the same transaction, so the identity write and
// the attribute writes commit or roll back together.
func (g *Gateway) UpsertIdentity(principalID, provider, providerUserID string, claims map[string]string) (*models.ExternalIdentity, error) {
	var ident models.ExternalIdentity

	err := g.db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&ident, "provider = ? AND provider_user_id = ?", provider, providerUserID).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			ident = models.ExternalIdentity{
				ID:             uuid.New().String(),
				AccountID:      principalID,
				Provider:       provider,
				ProviderUserID: providerUserID,
			}
			if err := ident.SetClaims(claims); err != nil {
				return err
			}
			if err := tx.Create(&ident).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// Re-authentication: refresh claims in place. The identity keeps
			// whatever account it is bound to; moving it is merge territory.
			if err := ident.SetClaims(claims); err != nil {
				return err
			}
			if err := tx.Model(&ident).Update("claims", ident.Claims).Error; err != nil {
				return err
			}
		}
		return identity.Consolidate(tx, &ident)
	})
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

// EnsurePrincipal finds or creates a password-less principal for an email
// address. OAuth logins route through here so a first-ever login provisions
// the principal that the identity event then attaches to.
func (g *Gateway) EnsurePrincipal(email string) (*models.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	var principal models.Principal
	err := g.db.Where("email = ?", email).First(&principal).Error
	if err == nil {
		return &principal, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	principal = models.Principal{ID: uuid.New().String(), Email: email}
	if err := g.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&principal).Error; err != nil {
		return nil, err
	}
	// Re-read in case a concurrent login won the insert.
	if err := g.db.Where("email = ?", email).First(&principal).Error; err != nil {
		return nil, err
	}
	return &principal, nil
}

// DeletePrincipal removes a principal and any identities still bound to it.
// During a merge this runs after the identities have been re-parented, so
// the identity sweep is normally a no-op there.
func (g *Gateway) DeletePrincipal(principalID string) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("account_id = ?", principalID).Delete(&models.ExternalIdentity{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.Principal{}, "id = ?", principalID).Error
	})
}
