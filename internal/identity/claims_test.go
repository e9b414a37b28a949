package identity

import (
	"testing"

	"github.com/kuip/nomen/internal/db/models"
)

func TestExtractAttributes_PriorityOrder(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]string
		key    string
		want   string
	}{
		{
			name:   "full_name beats name for display_name",
			claims: map[string]string{"full_name": "Ann Smith", "name": "Ann"},
			key:    models.AttrDisplayName,
			want:   "Ann Smith",
		},
		{
			name:   "name used when full_name absent",
			claims: map[string]string{"name": "Ann"},
			key:    models.AttrDisplayName,
			want:   "Ann",
		},
		{
			name:   "preferred_username beats login",
			claims: map[string]string{"login": "asmith", "preferred_username": "ann"},
			key:    models.AttrUsername,
			want:   "ann",
		},
		{
			name:   "github-style login works alone",
			claims: map[string]string{"login": "asmith"},
			key:    models.AttrUsername,
			want:   "asmith",
		},
		{
			name:   "picture maps to avatar_url",
			claims: map[string]string{"picture": "https://example.com/a.png"},
			key:    models.AttrAvatarURL,
			want:   "https://example.com/a.png",
		},
		{
			name:   "values are trimmed",
			claims: map[string]string{"email": "  a@x.com  "},
			key:    models.AttrPrimaryEmail,
			want:   "a@x.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractAttributes(tc.claims)
			if got[tc.key] != tc.want {
				t.Fatalf("key %s: expected %q, got %q", tc.key, tc.want, got[tc.key])
			}
		})
	}
}

func TestExtractAttributes_AbsentAndEmptySkipped(t *testing.T) {
	got := ExtractAttributes(map[string]string{
		"email":     "",
		"full_name": "   ",
		"login":     "asmith",
	})

	if _, ok := got[models.AttrPrimaryEmail]; ok {
		t.Fatal("empty email claim must not produce a candidate")
	}
	if _, ok := got[models.AttrDisplayName]; ok {
		t.Fatal("whitespace-only name claim must not produce a candidate")
	}
	if got[models.AttrUsername] != "asmith" {
		t.Fatalf("expected username candidate, got %v", got)
	}
	if _, ok := got[models.AttrAvatarURL]; ok {
		t.Fatal("absent avatar claim must not produce a candidate")
	}
}
