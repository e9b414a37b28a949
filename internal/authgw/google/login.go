package google

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// stateToken is used to protect against CSRF attacks
var stateToken string

func init() {
	b := make([]byte, 16)
	rand.Read(b)
	stateToken = hex.EncodeToString(b)
}

// mergeTokenCookie carries a pending merge token across the OAuth redirect.
// The token is an opaque bearer credential; the cookie is just the client's
// durable-enough storage for the round trip.
const mergeTokenCookie = "nomen_merge_token"

// HandleLogin initiates the Google OAuth flow by redirecting to Google's
// consent page. An optional merge_token query parameter is stashed in a
// short-lived cookie so a merge handshake survives the redirect.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	// Dynamically construct redirect URL from the request
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	redirectURL := fmt.Sprintf("%s://%s/auth/google/callback", scheme, r.Host)

	if mergeToken := r.URL.Query().Get("merge_token"); mergeToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     mergeTokenCookie,
			Value:    mergeToken,
			Path:     "/auth/google",
			MaxAge:   600,
			HttpOnly: true,
		})
	}

	config := GetOAuthConfig(redirectURL)
	url := config.AuthCodeURL(stateToken, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GetStateToken returns the current CSRF state token for validation.
func GetStateToken() string {
	return stateToken
}
