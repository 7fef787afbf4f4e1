package authz

import (
	"time"

	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
)

// DecodedClaims is the verified view of a token handed to route handlers.
type DecodedClaims struct {
	Issuer    string
	Audience  []string
	Subject   string
	Expiry    time.Time
	NotBefore *time.Time
	KeyID     string

	// Permissions is empty both when the claim is absent and when it is
	// an empty list. HasPermissionsClaim tells the two apart.
	Permissions         map[string]struct{}
	HasPermissionsClaim bool
}

func decode(c *jwtx.Claims) *DecodedClaims {
	d := &DecodedClaims{
		Issuer:              c.Issuer,
		Audience:            append([]string(nil), c.Audience...),
		Subject:             c.Subject,
		KeyID:               c.KeyID,
		Permissions:         make(map[string]struct{}, len(c.Permissions)),
		HasPermissionsClaim: c.Permissions != nil,
	}
	if c.ExpiresAt != nil {
		d.Expiry = c.ExpiresAt.UTC()
	}
	if c.NotBefore != nil {
		nbf := c.NotBefore.UTC()
		d.NotBefore = &nbf
	}
	for _, p := range c.Permissions {
		d.Permissions[p] = struct{}{}
	}
	return d
}

// Has reports whether perm was granted.
func (d *DecodedClaims) Has(perm string) bool {
	_, ok := d.Permissions[perm]
	return ok
}

// Check requires the exact permission string to be granted. There is no
// prefix or wildcard matching.
func Check(claims *DecodedClaims, required string) error {
	if !claims.HasPermissionsClaim {
		return newFailure(PermissionsClaimMissing, nil)
	}
	if required == "" || !claims.Has(required) {
		return newFailure(InsufficientPermission, nil)
	}
	return nil
}
