// Package jwtxtest provides an in-process identity provider for tests:
// RSA signing keys and an httptest server publishing them as a JWKS.
package jwtxtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// Key is an RSA signing key with a kid.
type Key struct {
	ID      string
	Private *rsa.PrivateKey
}

// NewKey generates a 2048-bit RSA key.
func NewKey(t testing.TB, kid string) *Key {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &Key{ID: kid, Private: pk}
}

// JWK returns the public half as a JWK.
func (k *Key) JWK() jose.JSONWebKey {
	return jose.JSONWebKey{
		Key:       &k.Private.PublicKey,
		KeyID:     k.ID,
		Algorithm: "RS256",
		Use:       "sig",
	}
}

// Sign issues an RS256 token carrying claims, with the key's kid.
func (k *Key) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = k.ID
	s, err := tok.SignedString(k.Private)
	require.NoError(t, err)
	return s
}

// NewClaims builds a claim map valid from now for ttl. Passing no
// permissions leaves the permissions claim out entirely.
func NewClaims(issuer, audience string, now time.Time, ttl time.Duration, permissions ...string) jwt.MapClaims {
	c := jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": "auth0|barista",
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if permissions != nil {
		c["permissions"] = permissions
	}
	return c
}

// JWKSServer serves a JWKS and an OpenID configuration document.
type JWKSServer struct {
	*httptest.Server

	mu     sync.Mutex
	keys   []jose.JSONWebKey
	status int
	delay  time.Duration
	hits   atomic.Int64
}

// NewJWKSServer starts a server publishing keys. It is closed on cleanup.
func NewJWKSServer(t testing.TB, keys ...*Key) *JWKSServer {
	t.Helper()
	s := &JWKSServer{status: http.StatusOK}
	s.SetKeys(keys...)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/jwks.json", s.serveJWKS)
	mux.HandleFunc("GET /.well-known/openid-configuration", s.serveDiscovery)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetKeys replaces the published keys.
func (s *JWKSServer) SetKeys(keys ...*Key) {
	jwks := make([]jose.JSONWebKey, 0, len(keys))
	for _, k := range keys {
		jwks = append(jwks, k.JWK())
	}
	s.mu.Lock()
	s.keys = jwks
	s.mu.Unlock()
}

// SetStatus makes the JWKS endpoint answer with status instead of keys.
func (s *JWKSServer) SetStatus(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// SetDelay holds every JWKS response for d.
func (s *JWKSServer) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Hits counts JWKS requests served.
func (s *JWKSServer) Hits() int64 { return s.hits.Load() }

// Issuer returns the issuer identifier, with the trailing slash Auth0 uses.
func (s *JWKSServer) Issuer() string { return s.URL + "/" }

func (s *JWKSServer) JWKSURL() string { return s.URL + "/.well-known/jwks.json" }

func (s *JWKSServer) serveJWKS(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)

	s.mu.Lock()
	keys, status, delay := s.keys, s.status, s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(jose.JSONWebKeySet{Keys: keys})
}

func (s *JWKSServer) serveDiscovery(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"issuer":                                s.Issuer(),
		"jwks_uri":                              s.JWKSURL(),
		"authorization_endpoint":                s.URL + "/authorize",
		"token_endpoint":                        s.URL + "/oauth/token",
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}
