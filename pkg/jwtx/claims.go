package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims the platform issues. The verification
// service only consumes tokens; it never mints end-user credentials itself
// (tests use the HS256 signer below).
type Claims struct {
	jwt.RegisteredClaims

	// SID is the platform session ID. Step-up verification is bound to it:
	// a session verified once stays verified until the window lapses.
	SID string `json:"sid,omitempty"`

	// Scopes carry coarse permissions, e.g. "admin:2fa" for settings
	// management.
	Scopes []string `json:"scopes,omitempty"`

	// Username for the authenticated user, used for TOTP account labels.
	Username string `json:"username,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for tests and tooling.
func NewAccessClaims(subject, sid, username string, scopes []string, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		SID:      sid,
		Scopes:   scopes,
		Username: username,
	}
}

// ValidateExpiry re-checks exp/nbf against the current time. The verifier
// already enforces these; handlers call this for a second opinion right
// before acting on the claims.
func (c Claims) ValidateExpiry() error {
	now := time.Now()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
