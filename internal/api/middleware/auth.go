package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kuip/nomen/internal/authgw"
	"github.com/kuip/nomen/internal/db/models"
	"gorm.io/gorm"
)

type contextKey string

const accountIDKey contextKey = "accountId"

// AccountID retrieves the authenticated caller's account id from the
// request context. Empty string when the request was not authenticated.
func AccountID(ctx context.Context) string {
	if id, ok := ctx.Value(accountIDKey).(string); ok {
		return id
	}
	return ""
}

// WithAccountID injects a caller account id into the context (used by tests
// to bypass session verification).
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// SessionAuth validates the bearer session token and resolves the caller's
// account. The principal must still exist: merging away an account leaves
// its old session tokens verifiable but pointing at a deleted principal,
// and those must be rejected so the caller re-authenticates.
func SessionAuth(gateway *authgw.Gateway, database *gorm.DB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w)
				return
			}

			principalID, err := gateway.VerifySession(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			var principal models.Principal
			if err := database.First(&principal, "id = ?", principalID).Error; err != nil {
				unauthorized(w)
				return
			}

			ctx := WithAccountID(r.Context(), principalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": {"message": "Not authenticated", "type": "authentication_error"}}`))
}
