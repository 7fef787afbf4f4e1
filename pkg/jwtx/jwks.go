package jwtx

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
)

var ErrEmptyKeySet = errors.New("jwtx: no usable signing keys")

// ParseJWKS decodes a JWKS document into a KeySet.
//
// Entries that cannot be used for signature verification are skipped:
// keys without a kid, keys marked for encryption, and entries go-jose
// cannot decode. Private keys are reduced to their public half. A document
// that yields no usable key is an error.
func ParseJWKS(issuerURL string, fetchedAt time.Time, body []byte) (*KeySet, error) {
	var doc struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("jwtx: decode jwks: %w", err)
	}

	keys := make([]SigningKey, 0, len(doc.Keys))
	for _, raw := range doc.Keys {
		var jwk jose.JSONWebKey
		if err := jwk.UnmarshalJSON(raw); err != nil {
			continue
		}
		if jwk.KeyID == "" || (jwk.Use != "" && jwk.Use != "sig") {
			continue
		}
		if !jwk.IsPublic() {
			jwk = jwk.Public()
		}
		if !jwk.Valid() {
			continue
		}
		keys = append(keys, SigningKey{
			KeyID:     jwk.KeyID,
			Algorithm: jwk.Algorithm,
			Use:       jwk.Use,
			Key:       jwk.Key,
		})
	}

	if len(keys) == 0 {
		return nil, ErrEmptyKeySet
	}
	return NewKeySet(issuerURL, fetchedAt, keys), nil
}
