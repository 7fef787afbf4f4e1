package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
)

// NewKeyResolver builds the resolver for the configured issuer. With
// AUTH_OIDC_DISCOVERY set, the JWKS location is looked up first.
func NewKeyResolver(ctx context.Context, cfg Config, logger *slog.Logger) (*jwtx.Resolver, error) {
	jwksURL := cfg.JWKSURL
	if cfg.OIDCDiscovery {
		dctx, cancel := context.WithTimeout(ctx, cfg.JWKSTimeout)
		defer cancel()

		u, err := jwtx.DiscoverJWKSURL(dctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("discover jwks_uri: %w", err)
		}
		jwksURL = u
	}

	fetcher := jwtx.NewHTTPFetcher(cfg.Issuer, jwksURL, nil)
	logger.Info("identity provider configured", "issuer", cfg.Issuer, "jwks_url", fetcher.URL)

	return jwtx.NewResolver(fetcher, jwtx.ResolverOptions{
		Timeout: cfg.JWKSTimeout,
		Logger:  logger,
	}), nil
}
