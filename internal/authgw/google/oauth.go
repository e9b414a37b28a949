package google

import (
	"os"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
)

// Scopes requested from Google: just enough to identify the person.
var Scopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// GetOAuthConfig returns the OAuth2 config for Google authentication.
func GetOAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("NOMEN_GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("NOMEN_GOOGLE_CLIENT_SECRET"),
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     googleOAuth.Endpoint,
	}
}

// Enabled reports whether Google login is configured.
func Enabled() bool {
	return os.Getenv("NOMEN_GOOGLE_CLIENT_ID") != "" && os.Getenv("NOMEN_GOOGLE_CLIENT_SECRET") != ""
}
