package identity

import (
	"strings"

	"github.com/kuip/nomen/internal/db/models"
)

// claimPriority maps each attribute key to the provider claim names that can
// supply it, in first-match-wins order. Providers disagree on naming (GitHub
// sends "login" and "avatar_url", Google sends "name" and "picture"), so
// each key tolerates the common spellings.
var claimPriority = map[string][]string{
	models.AttrDisplayName:  {"full_name", "name", "display_name"},
	models.AttrPrimaryEmail: {"email"},
	models.AttrUsername:     {"preferred_username", "user_name", "login"},
	models.AttrAvatarURL:    {"avatar_url", "picture"},
}

// ExtractAttributes pulls candidate attribute values out of a provider claims
// bag. A candidate is present only if non-empty after trimming; absent
// candidates are omitted from the result entirely.
func ExtractAttributes(claims map[string]string) map[string]string {
	out := make(map[string]string)
	for _, key := range models.AttributeKeys {
		for _, claimName := range claimPriority[key] {
			value := strings.TrimSpace(claims[claimName])
			if value != "" {
				out[key] = value
				break
			}
		}
	}
	return out
}
