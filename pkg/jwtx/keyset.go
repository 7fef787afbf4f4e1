package jwtx

import (
	"errors"
	"slices"
	"time"
)

// Supported JWS algorithms.
const (
	AlgRS256 = "RS256"
)

var ErrNoKey = errors.New("jwtx: key not found")

// SigningKey is a single verification key published by the issuer.
type SigningKey struct {
	KeyID     string
	Algorithm string // empty when the JWK omits "alg"
	Use       string
	Key       any // *rsa.PublicKey, *ecdsa.PublicKey or ed25519.PublicKey
}

// KeySet is an immutable snapshot of an issuer's signing keys.
// A new snapshot replaces the old one as a whole on refresh, so readers
// never observe a partially updated set.
type KeySet struct {
	issuerURL string
	fetchedAt time.Time
	keys      map[string]SigningKey
	order     []string
}

// NewKeySet builds a snapshot from keys. Later duplicates of a kid win.
func NewKeySet(issuerURL string, fetchedAt time.Time, keys []SigningKey) *KeySet {
	ks := &KeySet{
		issuerURL: issuerURL,
		fetchedAt: fetchedAt,
		keys:      make(map[string]SigningKey, len(keys)),
	}
	for _, k := range keys {
		if _, dup := ks.keys[k.KeyID]; !dup {
			ks.order = append(ks.order, k.KeyID)
		}
		ks.keys[k.KeyID] = k
	}
	return ks
}

// Get returns the key registered under kid.
func (k *KeySet) Get(kid string) (SigningKey, error) {
	if k == nil {
		return SigningKey{}, ErrNoKey
	}
	if key, ok := k.keys[kid]; ok {
		return key, nil
	}
	return SigningKey{}, ErrNoKey
}

// KeyIDs returns the key ids in the order the issuer published them.
func (k *KeySet) KeyIDs() []string {
	if k == nil {
		return nil
	}
	return slices.Clone(k.order)
}

func (k *KeySet) Len() int {
	if k == nil {
		return 0
	}
	return len(k.keys)
}

func (k *KeySet) IssuerURL() string {
	if k == nil {
		return ""
	}
	return k.issuerURL
}

// FetchedAt reports when the snapshot was retrieved.
func (k *KeySet) FetchedAt() time.Time {
	if k == nil {
		return time.Time{}
	}
	return k.fetchedAt
}
