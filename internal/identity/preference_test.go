package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kuip/nomen/internal/db/models"
)

func TestSetPreferredAttribute_OwnershipEnforced(t *testing.T) {
	database := newTestDB(t)
	owner := uuid.New().String()
	stranger := uuid.New().String()

	linkIdentity(t, database, owner, "google", "g-1", map[string]string{"email": "a@x.com"})
	linkIdentity(t, database, stranger, "google", "g-2", map[string]string{"email": "b@x.com"})

	ownerProfile := getProfile(t, database, owner)
	var attr models.ProfileAttribute
	if err := database.First(&attr, "profile_id = ?", ownerProfile.ID).Error; err != nil {
		t.Fatalf("attribute: %v", err)
	}

	if err := SetPreferredAttribute(database, attr.ID, stranger); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := SetPreferredAttribute(database, attr.ID, owner); err != nil {
		t.Fatalf("owner must be allowed: %v", err)
	}
}

func TestSetPreferredAttribute_UnknownAttribute(t *testing.T) {
	database := newTestDB(t)
	accountID := uuid.New().String()
	linkIdentity(t, database, accountID, "google", "g-1", map[string]string{"email": "a@x.com"})

	if err := SetPreferredAttribute(database, 9999, accountID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPreferredAttribute_NonAggregateKeySkipsWriteThrough(t *testing.T) {
	database := newTestDB(t)
	accountID := uuid.New().String()

	linkIdentity(t, database, accountID, "github", "gh-1", map[string]string{
		"email": "a@x.com",
		"login": "asmith",
	})
	linkIdentity(t, database, accountID, "gitlab", "gl-1", map[string]string{
		"user_name": "ann",
	})

	profile := getProfile(t, database, accountID)
	var gitlabUsername models.ProfileAttribute
	err := database.First(&gitlabUsername, "profile_id = ? AND attribute_key = ? AND source_provider = ?",
		profile.ID, models.AttrUsername, "gitlab").Error
	if err != nil {
		t.Fatalf("username attribute: %v", err)
	}

	if err := SetPreferredAttribute(database, gitlabUsername.ID, accountID); err != nil {
		t.Fatalf("set preferred: %v", err)
	}

	// username is not part of the aggregate; email must be untouched.
	after := getProfile(t, database, accountID)
	if after.PrimaryEmail == nil || *after.PrimaryEmail != "a@x.com" {
		t.Fatalf("aggregate email must be untouched, got %v", after.PrimaryEmail)
	}
	assertPreferredInvariant(t, database)
}
