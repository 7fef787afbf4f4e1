package authz

import (
	"net/http"
	"strings"
)

// RawToken is a bearer credential lifted from a request.
type RawToken struct {
	Scheme     string
	Credential string
}

// Extract reads the bearer token from the Authorization header. It only
// checks the header's shape and never looks inside the token.
func Extract(h http.Header) (RawToken, error) {
	values := h.Values("Authorization")
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return RawToken{}, newFailure(MissingAuthHeader, nil)
	}
	if len(values) > 1 {
		return RawToken{}, newFailure(MalformedAuthHeader, nil)
	}

	parts := strings.Fields(values[0])
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return RawToken{}, newFailure(MalformedAuthHeader, nil)
	}

	return RawToken{Scheme: parts[0], Credential: parts[1]}, nil
}
