package authz

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
)

// Kind classifies why a request was refused.
type Kind int

const (
	MissingAuthHeader Kind = iota + 1
	MalformedAuthHeader
	MalformedToken
	UnsupportedAlgorithm
	UnknownSigningKey
	InvalidSignature
	InvalidClaims
	TokenExpired
	PermissionsClaimMissing
	InsufficientPermission
	KeySetUnavailable
)

var kindNames = map[Kind]string{
	MissingAuthHeader:       "missing_auth_header",
	MalformedAuthHeader:     "malformed_auth_header",
	MalformedToken:          "malformed_token",
	UnsupportedAlgorithm:    "unsupported_algorithm",
	UnknownSigningKey:       "unknown_signing_key",
	InvalidSignature:        "invalid_signature",
	InvalidClaims:           "invalid_claims",
	TokenExpired:            "token_expired",
	PermissionsClaimMissing: "permissions_claim_missing",
	InsufficientPermission:  "insufficient_permission",
	KeySetUnavailable:       "key_set_unavailable",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status is the HTTP status a failure of this kind is reported with.
func (k Kind) Status() int {
	switch k {
	case PermissionsClaimMissing, InsufficientPermission:
		return http.StatusForbidden
	case KeySetUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnauthorized
	}
}

var kindMessages = map[Kind]string{
	MissingAuthHeader:       "Authorization header is expected.",
	MalformedAuthHeader:     "Authorization header must be of the form \"Bearer <token>\".",
	MalformedToken:          "Unable to parse authentication token.",
	UnsupportedAlgorithm:    "Token signing algorithm is not accepted.",
	UnknownSigningKey:       "Unable to find the appropriate key.",
	InvalidSignature:        "Token signature is invalid.",
	InvalidClaims:           "Incorrect claims. Please, check the audience and issuer.",
	TokenExpired:            "Token expired.",
	PermissionsClaimMissing: "Permissions not included in token.",
	InsufficientPermission:  "Permission not found.",
	KeySetUnavailable:       "Unable to verify token at this time.",
}

// Message is the client-facing text for the kind.
func (k Kind) Message() string {
	return kindMessages[k]
}

// Failure is a refused authorization. It never carries key material or
// token contents, so Message is safe to return to the caller.
type Failure struct {
	Kind    Kind
	Status  int
	Message string

	// Claim names the claim that failed, for InvalidClaims.
	Claim string

	err error
}

func newFailure(kind Kind, err error) *Failure {
	return &Failure{Kind: kind, Status: kind.Status(), Message: kind.Message(), err: err}
}

func (f *Failure) Error() string {
	if f.err != nil {
		return fmt.Sprintf("authz: %s: %v", f.Kind, f.err)
	}
	return "authz: " + f.Kind.String()
}

func (f *Failure) Unwrap() error { return f.err }

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}

// failureFromVerify maps verifier errors onto failure kinds.
func failureFromVerify(err error) *Failure {
	switch {
	case errors.Is(err, jwtx.ErrKeySetUnavailable):
		return newFailure(KeySetUnavailable, err)
	case errors.Is(err, jwtx.ErrAlgMismatch):
		return newFailure(UnsupportedAlgorithm, err)
	case errors.Is(err, jwtx.ErrUnknownKID):
		return newFailure(UnknownSigningKey, err)
	case errors.Is(err, jwtx.ErrInvalidSig):
		return newFailure(InvalidSignature, err)
	case errors.Is(err, jwtx.ErrExpired):
		return newFailure(TokenExpired, err)
	case errors.Is(err, jwtx.ErrIssuer):
		return claimFailure("iss", "Incorrect claims. Please, check the issuer.", err)
	case errors.Is(err, jwtx.ErrAudience):
		return claimFailure("aud", "Incorrect claims. Please, check the audience.", err)
	case errors.Is(err, jwtx.ErrNotYetValid):
		return claimFailure("nbf", "Token is not valid yet.", err)
	case errors.Is(err, jwtx.ErrInvalidClaim):
		return claimFailure("exp", "Token has no expiry.", err)
	default:
		return newFailure(MalformedToken, err)
	}
}

func claimFailure(claim, message string, err error) *Failure {
	f := newFailure(InvalidClaims, err)
	f.Claim = claim
	f.Message = message
	return f
}
