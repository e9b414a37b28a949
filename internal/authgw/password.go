package authgw

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kuip/nomen/internal/db/models"
	"github.com/kuip/nomen/internal/identity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProviderPassword is the provider name for email/password identities.
const ProviderPassword = "password"

const minPasswordLength = 8

// Register creates a principal with email/password credentials and binds a
// password identity to it, running consolidation in the same transaction.
func (g *Gateway) Register(email, password string) (*models.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if len(password) < minPasswordLength {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	principal := models.Principal{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
	}

	err = g.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Principal
		if err := tx.First(&existing, "email = ?", email).Error; err == nil {
			return ErrEmailTaken
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := tx.Create(&principal).Error; err != nil {
			return err
		}

		ident := models.ExternalIdentity{
			ID:             uuid.New().String(),
			AccountID:      principal.ID,
			Provider:       ProviderPassword,
			ProviderUserID: principal.ID,
		}
		if err := ident.SetClaims(map[string]string{"email": email}); err != nil {
			return err
		}
		if err := tx.Create(&ident).Error; err != nil {
			return err
		}
		return identity.Consolidate(tx, &ident)
	})
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

// Login verifies email/password credentials and refreshes the password
// identity's claims on the way through, like any other re-authentication.
func (g *Gateway) Login(email, password string) (*models.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var principal models.Principal
	if err := g.db.First(&principal, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if principal.PasswordHash == "" {
		return nil, ErrInvalidCredentials // OAuth-only principal
	}
	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if _, err := g.UpsertIdentity(principal.ID, ProviderPassword, principal.ID, map[string]string{"email": email}); err != nil {
		return nil, err
	}
	return &principal, nil
}
