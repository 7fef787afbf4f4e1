package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims the menu service reads.
type Claims struct {
	jwt.RegisteredClaims

	// Permissions granted by the identity provider's RBAC, e.g. "post:drinks".
	// Nil when the token carries no permissions claim at all.
	Permissions []string `json:"permissions,omitempty"`

	Scope           string `json:"scope,omitempty"`
	AuthorizedParty string `json:"azp,omitempty"`

	// KeyID is the kid of the key that verified the token.
	KeyID string `json:"-"`
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateNotBefore accepts a token from nbf onwards, at whole-second
// resolution. A missing nbf is fine.
func (c *Claims) ValidateNotBefore(now time.Time, leeway time.Duration) error {
	if c.NotBefore == nil {
		return nil
	}
	if now.Add(leeway).Unix() < c.NotBefore.Unix() {
		return ErrNotYetValid
	}
	return nil
}

// ValidateExpiry rejects a token from exp onwards, at whole-second
// resolution. Tokens without exp are rejected outright.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil {
		return ErrMissingExpiry
	}
	if now.Add(-leeway).Unix() >= c.ExpiresAt.Unix() {
		return ErrExpired
	}
	return nil
}
