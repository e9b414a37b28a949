package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kuip/nomen/internal/authgw"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a principal with email/password credentials. The
// identity event this generates runs consolidation, so a fresh registration
// comes back with a profile already seeded from the email claim.
func RegisterHandler(gateway *authgw.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}

		principal, err := gateway.Register(req.Email, req.Password)
		if err != nil {
			writeGatewayError(w, err)
			return
		}

		session, err := gateway.IssueSession(principal.ID, 0)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"account_id":    principal.ID,
			"session_token": session,
		})
	}
}

// LoginHandler verifies email/password credentials and issues a session.
func LoginHandler(gateway *authgw.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}

		principal, err := gateway.Login(req.Email, req.Password)
		if err != nil {
			writeGatewayError(w, err)
			return
		}

		session, err := gateway.IssueSession(principal.ID, 0)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"account_id":    principal.ID,
			"session_token": session,
		})
	}
}

func writeGatewayError(w http.ResponseWriter, err error) {
	switch err {
	case authgw.ErrInvalidCredentials:
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case authgw.ErrEmailTaken:
		writeError(w, http.StatusConflict, "email_taken", "email already registered")
	default:
		writeDomainError(w, err)
	}
}
