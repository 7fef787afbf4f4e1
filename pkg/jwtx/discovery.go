package jwtx

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// DiscoverJWKSURL reads the issuer's OpenID configuration and returns its
// jwks_uri. The document's issuer must match exactly.
func DiscoverJWKSURL(ctx context.Context, issuer string) (string, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("jwtx: oidc discovery: %w", err)
	}

	var meta struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return "", fmt.Errorf("jwtx: oidc discovery: %w", err)
	}
	if meta.JWKSURI == "" {
		return "", fmt.Errorf("jwtx: oidc discovery: issuer %q publishes no jwks_uri", issuer)
	}
	return meta.JWKSURI, nil
}
