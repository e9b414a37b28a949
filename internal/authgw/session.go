package authgw

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long an issued session token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// IssueSession mints an HS256 session token for a principal.
func (g *Gateway) IssueSession(principalID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   principalID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    "nomen",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

// VerifySession validates a session token and returns the principal id.
func (g *Gateway) VerifySession(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrNotAuthenticated
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrNotAuthenticated
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrNotAuthenticated
	}
	return claims.Subject, nil
}
