package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/kuip/nomen/internal/authgw"
	"github.com/kuip/nomen/internal/util"
)

// HandleCallback processes the OAuth callback from Google: it exchanges the
// code, fetches the user info, feeds it to the gateway as an identity event
// (which runs consolidation), and issues a session for the principal.
func HandleCallback(gateway *authgw.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Verify state token
		state := r.URL.Query().Get("state")
		if state != GetStateToken() {
			http.Error(w, "Invalid state token", http.StatusBadRequest)
			return
		}

		code := r.URL.Query().Get("code")

		// Dynamically construct redirect URL from the request
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		redirectURL := fmt.Sprintf("%s://%s/auth/google/callback", scheme, r.Host)

		config := GetOAuthConfig(redirectURL)

		token, err := config.Exchange(context.Background(), code)
		if err != nil {
			http.Error(w, fmt.Sprintf("Token exchange failed: %v", err), http.StatusInternalServerError)
			return
		}

		// Fetch user info from Google
		client := config.Client(context.Background(), token)
		resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get user info: %v", err), http.StatusInternalServerError)
			return
		}
		defer resp.Body.Close()

		var userInfo struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
			http.Error(w, fmt.Sprintf("Failed to decode user info: %v", err), http.StatusInternalServerError)
			return
		}
		if userInfo.ID == "" || userInfo.Email == "" {
			http.Error(w, "Incomplete user info from Google", http.StatusBadGateway)
			return
		}

		claims := map[string]string{
			"email":   userInfo.Email,
			"name":    userInfo.Name,
			"picture": userInfo.Picture,
		}

		principal, err := gateway.EnsurePrincipal(userInfo.Email)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to provision principal: %v", err), http.StatusInternalServerError)
			return
		}

		ident, err := gateway.UpsertIdentity(principal.ID, "google", userInfo.ID, claims)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to link identity: %v", err), http.StatusInternalServerError)
			return
		}
		log.Printf("🔗 Linked google identity %s for principal %s (claims: %s)",
			ident.ProviderUserID, principal.ID, util.TruncateLog(ident.Claims, 200))

		session, err := gateway.IssueSession(ident.AccountID, 0)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to issue session: %v", err), http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"session_token": session,
			"account_id":    ident.AccountID,
			"provider":      "google",
		}

		// Resume a pending merge handshake stashed before the redirect.
		if cookie, err := r.Cookie(mergeTokenCookie); err == nil && cookie.Value != "" {
			response["merge_token"] = cookie.Value
			http.SetCookie(w, &http.Cookie{Name: mergeTokenCookie, Path: "/auth/google", MaxAge: -1})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}
