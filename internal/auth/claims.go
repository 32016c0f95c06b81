package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the fields the client needs from an identity token.
// The token is parsed without signature verification; verification is the
// backend's job, the client only does session bookkeeping with it.
type IdentityClaims struct {
	UID       string
	ExpiresAt time.Time
}

// ExtractClaims pulls the subject and expiry out of a raw bearer token.
func ExtractClaims(raw string) (*IdentityClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("malformed identity token: %w", err)
	}

	out := &IdentityClaims{}

	// The issuer puts the member UID in "uid"; fall back to the subject.
	if uid, ok := claims["uid"].(string); ok && uid != "" {
		out.UID = uid
	} else if sub, err := claims.GetSubject(); err == nil {
		out.UID = sub
	}
	if out.UID == "" {
		return nil, fmt.Errorf("identity token carries no subject")
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out, nil
}

// Expired reports whether the token's expiry, when present, has passed.
func (c *IdentityClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
