package jwtx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxJWKSBody = 1 << 20

// KeyFetcher retrieves the current key set from an issuer.
type KeyFetcher interface {
	Fetch(ctx context.Context) (*KeySet, error)
}

// HTTPFetcher downloads a JWKS document over HTTP.
type HTTPFetcher struct {
	URL       string
	IssuerURL string
	Client    *http.Client
}

// JWKSURLForIssuer returns the conventional JWKS location of an issuer.
func JWKSURLForIssuer(issuer string) string {
	return strings.TrimRight(issuer, "/") + "/.well-known/jwks.json"
}

// NewHTTPFetcher returns a fetcher for the issuer's JWKS. An empty jwksURL
// falls back to the well-known location under the issuer.
func NewHTTPFetcher(issuer, jwksURL string, client *http.Client) *HTTPFetcher {
	if jwksURL == "" {
		jwksURL = JWKSURLForIssuer(issuer)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{URL: jwksURL, IssuerURL: issuer, Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("jwtx: build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwtx: fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwtx: fetch jwks: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBody))
	if err != nil {
		return nil, fmt.Errorf("jwtx: read jwks: %w", err)
	}

	return ParseJWKS(f.IssuerURL, time.Now().UTC(), body)
}
