package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kuip/nomen/internal/api/middleware"
	"github.com/kuip/nomen/internal/db/models"
	"github.com/kuip/nomen/internal/identity"
	"gorm.io/gorm"
)

// ProfileHandler returns the caller's consolidated profile: the aggregate,
// every candidate attribute row, and the linked-provider counts projection.
func ProfileHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := middleware.AccountID(r.Context())

		var account models.Account
		if err := database.First(&account, "id = ?", accountID).Error; err != nil {
			writeDomainError(w, identity.ErrNotFound)
			return
		}

		providers, err := identity.LinkedProviders(database, accountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		response := map[string]interface{}{
			"account_id":       account.ID,
			"linked_providers": providers,
		}

		if account.ProfileID != nil {
			var profile models.Profile
			if err := database.First(&profile, "id = ?", *account.ProfileID).Error; err == nil {
				var attributes []models.ProfileAttribute
				database.Where("profile_id = ?", profile.ID).
					Order("attribute_key, created_at, id").
					Find(&attributes)

				response["profile"] = profile
				response["merged_account_ids"] = profile.MergedIDs()
				response["attributes"] = attributes
			}
		}

		writeJSON(w, http.StatusOK, response)
	}
}

// PreferAttributeHandler marks one of the caller's attribute rows as the
// preferred value for its key.
func PreferAttributeHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid attribute ID")
			return
		}

		accountID := middleware.AccountID(r.Context())
		if err := identity.SetPreferredAttribute(database, uint(id), accountID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
