package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the backend token this gateway reads.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenInspector reads backend-issued tokens. The backend owns the signing key, so nothing here
// verifies signatures; the backend rejects bad tokens with 401 on the next call.
type TokenInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenInspector builds an inspector.
func NewTokenInspector() *TokenInspector {
	return &TokenInspector{parser: jwt.NewParser(), now: time.Now}
}

// Inspect decodes the claims of tokenStr without checking the signature.
func (ti *TokenInspector) Inspect(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := ti.parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim. Opaque tokens and tokens without exp report false.
func (ti *TokenInspector) ExpiresAt(tokenStr string) (time.Time, bool) {
	claims, err := ti.Inspect(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// SessionExpiry is the earlier of the token expiry and now+ttl. A zero ttl means no limit.
func (ti *TokenInspector) SessionExpiry(tokenStr string, ttl time.Duration) time.Time {
	var limit time.Time
	if ttl > 0 {
		limit = ti.now().Add(ttl)
	}
	exp, ok := ti.ExpiresAt(tokenStr)
	switch {
	case !ok:
		return limit
	case limit.IsZero() || exp.Before(limit):
		return exp
	default:
		return limit
	}
}
