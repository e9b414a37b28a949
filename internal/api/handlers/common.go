package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kuip/nomen/internal/identity"
	"github.com/kuip/nomen/internal/merge"
)

// writeJSON encodes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError emits the structured error shape used across the API.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}

// writeDomainError maps core sentinel errors onto HTTP outcomes. The merge
// confirmation flow depends on not_found, same_account and proceed being
// three distinguishable responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case identity.ErrNotFound, merge.ErrNotFound:
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case merge.ErrExpired:
		writeError(w, http.StatusNotFound, "expired", "merge request expired")
	case identity.ErrUnauthorized:
		writeError(w, http.StatusForbidden, "unauthorized", "caller does not own this resource")
	case merge.ErrSameAccount:
		writeError(w, http.StatusConflict, "same_account", "caller is the requester; nothing to merge")
	case merge.ErrInvalidMerge:
		writeError(w, http.StatusConflict, "invalid_merge", "cannot merge an account with itself")
	case merge.ErrAlreadyMerged:
		writeError(w, http.StatusConflict, "already_merged", "accounts already share a profile")
	case merge.ErrAlreadyOwned:
		writeError(w, http.StatusConflict, "already_owned", "identity already belongs to caller")
	case merge.ErrNoProfile:
		writeError(w, http.StatusUnprocessableEntity, "no_profile", "account has no profile")
	case identity.ErrConflict:
		writeError(w, http.StatusConflict, "conflict", "conflicting row exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
