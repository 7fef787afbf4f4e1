package authz

import (
	"context"
	"net/http"

	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
)

// Gate is the single entry point protected routes call before doing work.
type Gate struct {
	verifier jwtx.Verifier
}

func NewGate(verifier jwtx.Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize extracts, verifies and permission-checks the request's bearer
// token. Any failure is returned as a *Failure and no claims are returned
// with it.
func (g *Gate) Authorize(ctx context.Context, h http.Header, required string) (*DecodedClaims, error) {
	raw, err := Extract(h)
	if err != nil {
		return nil, err
	}

	verified, err := g.verifier.Verify(ctx, raw.Credential)
	if err != nil {
		return nil, failureFromVerify(err)
	}

	claims := decode(verified)
	if err := Check(claims, required); err != nil {
		return nil, err
	}
	return claims, nil
}
