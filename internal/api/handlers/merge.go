package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kuip/nomen/internal/api/middleware"
	"github.com/kuip/nomen/internal/authgw"
	"github.com/kuip/nomen/internal/merge"
	"gorm.io/gorm"
)

// CreateMergeRequestHandler opens a merge handshake for the caller and
// returns the single-use token the second party will present.
func CreateMergeRequestHandler(database *gorm.DB, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := middleware.AccountID(r.Context())

		request, err := merge.CreateRequest(database, accountID, ttl)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"token":      request.Token,
			"expires_at": request.ExpiresAt,
		})
	}
}

// MergeRequestInfoHandler resolves a token to the requester's preferred
// display name and email so the second party can decide on consent.
func MergeRequestInfoHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		accountID := middleware.AccountID(r.Context())

		info, err := merge.GetRequesterInfo(database, token, accountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// CancelMergeRequestHandler rejects or abandons a pending handshake.
// Idempotent; canceling an unknown token succeeds.
func CancelMergeRequestHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if err := merge.CancelRequest(database, token); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ExecuteMergeHandler consumes the token and performs the destructive merge.
// On success the caller's own account has been absorbed and their session
// is dead; the response signals that unambiguously so the client forces a
// re-login.
func ExecuteMergeHandler(database *gorm.DB, gateway *authgw.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		accountID := middleware.AccountID(r.Context())

		result, err := merge.ExecuteWithToken(database, gateway, token, accountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// MergeCandidateHandler is the non-token discovery read: does this
// (provider, provider_user_id) belong to a different account the caller
// could merge with?
func MergeCandidateHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := strings.TrimSpace(r.URL.Query().Get("provider"))
		providerUserID := strings.TrimSpace(r.URL.Query().Get("provider_user_id"))
		if provider == "" || providerUserID == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "provider and provider_user_id are required")
			return
		}

		accountID := middleware.AccountID(r.Context())
		candidate, err := merge.CheckCandidate(database, accountID, provider, providerUserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}
