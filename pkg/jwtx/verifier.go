package jwtx

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer        = errors.New("jwtx: issuer mismatch")
	ErrAudience      = errors.New("jwtx: audience mismatch")
	ErrExpired       = errors.New("jwtx: token expired")
	ErrNotYetValid   = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim  = errors.New("jwtx: invalid claims")
	ErrMissingExpiry = fmt.Errorf("%w: missing exp", ErrInvalidClaim)
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// VerifyOptions captures the expectations a token must meet.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values, at least one of which the token must contain.
	Audience []string

	// Algorithm is the only accepted "alg" header. Defaults to RS256.
	Algorithm string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// TokenVerifier checks compact JWS tokens against keys from a KeySource.
type TokenVerifier struct {
	keys   KeySource
	opts   VerifyOptions
	parser *jwt.Parser
}

func NewVerifier(keys KeySource, opts VerifyOptions) *TokenVerifier {
	if opts.Algorithm == "" {
		opts.Algorithm = AlgRS256
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TokenVerifier{
		keys: keys,
		opts: opts,
		// Claims are checked below, in a fixed order and at whole seconds.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{opts.Algorithm}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

type header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ"`
}

// Verify runs the checks in order and stops at the first failure:
// structure, algorithm, key lookup, signature, then iss, aud, nbf and exp.
func (v *TokenVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	h, err := parseHeader(token)
	if err != nil {
		return nil, err
	}
	if h.Alg != v.opts.Algorithm {
		return nil, fmt.Errorf("%w: got %q", ErrAlgMismatch, h.Alg)
	}
	if h.Kid == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrMalformed)
	}

	key, err := v.lookup(ctx, h.Kid)
	if err != nil {
		return nil, err
	}
	if !keyMatchesAlg(key, v.opts.Algorithm) {
		return nil, fmt.Errorf("%w: key %q cannot verify %s", ErrAlgMismatch, key.KeyID, v.opts.Algorithm)
	}

	claims := &Claims{}
	_, err = v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key.Key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, fmt.Errorf("%w: %w", ErrAlgMismatch, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	claims.KeyID = key.KeyID

	now := v.opts.Now()
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return nil, err
	}
	if err := claims.ValidateNotBefore(now, v.opts.Leeway); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiry(now, v.opts.Leeway); err != nil {
		return nil, err
	}

	return claims, nil
}

// lookup finds kid in the cached set, forcing at most one refresh.
func (v *TokenVerifier) lookup(ctx context.Context, kid string) (SigningKey, error) {
	ks, err := v.keys.KeySet(ctx)
	if err != nil {
		return SigningKey{}, err
	}
	if key, err := ks.Get(kid); err == nil {
		return key, nil
	}

	ks, err = v.keys.Refresh(ctx, ks)
	if err != nil {
		return SigningKey{}, err
	}
	key, err := ks.Get(kid)
	if err != nil {
		return SigningKey{}, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
	}
	return key, nil
}

func parseHeader(token string) (header, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return header{}, fmt.Errorf("%w: expected three segments", ErrMalformed)
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return header{}, fmt.Errorf("%w: header encoding", ErrMalformed)
	}

	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return header{}, fmt.Errorf("%w: header json", ErrMalformed)
	}
	return h, nil
}

func keyMatchesAlg(key SigningKey, alg string) bool {
	if key.Algorithm != "" && key.Algorithm != alg {
		return false
	}
	switch alg {
	case AlgRS256:
		_, ok := key.Key.(*rsa.PublicKey)
		return ok
	default:
		return false
	}
}
