package authz_test

import (
	"net/http"
	"testing"

	"github.com/aizuanjeme/coffeShop/pkg/authz"
	"github.com/stretchr/testify/require"
)

func claimsWith(perms ...string) *authz.DecodedClaims {
	c := &authz.DecodedClaims{Permissions: map[string]struct{}{}, HasPermissionsClaim: true}
	for _, p := range perms {
		c.Permissions[p] = struct{}{}
	}
	return c
}

func requireKind(t *testing.T, err error, kind authz.Kind) *authz.Failure {
	t.Helper()
	f, ok := authz.AsFailure(err)
	require.True(t, ok, "expected *authz.Failure, got %v", err)
	require.Equal(t, kind, f.Kind)
	require.Equal(t, kind.Status(), f.Status)
	return f
}

func TestCheck(t *testing.T) {
	claims := claimsWith("get:drinks-detail")

	require.NoError(t, authz.Check(claims, "get:drinks-detail"))

	f := requireKind(t, authz.Check(claims, "post:drinks"), authz.InsufficientPermission)
	require.Equal(t, http.StatusForbidden, f.Status)
}

func TestCheckIsExactMembership(t *testing.T) {
	claims := claimsWith("get:drinks", "patch:*", "DELETE:drinks")

	requireKind(t, authz.Check(claims, "get:drinks-detail"), authz.InsufficientPermission)
	requireKind(t, authz.Check(claims, "patch:drinks"), authz.InsufficientPermission)
	requireKind(t, authz.Check(claims, "delete:drinks"), authz.InsufficientPermission)
	requireKind(t, authz.Check(claims, ""), authz.InsufficientPermission)
}

func TestCheckMissingVersusEmptyClaim(t *testing.T) {
	missing := &authz.DecodedClaims{Permissions: map[string]struct{}{}}
	requireKind(t, authz.Check(missing, "delete:drinks"), authz.PermissionsClaimMissing)

	empty := claimsWith()
	requireKind(t, authz.Check(empty, "delete:drinks"), authz.InsufficientPermission)
}

func TestKindStatuses(t *testing.T) {
	unauthorized := []authz.Kind{
		authz.MissingAuthHeader, authz.MalformedAuthHeader, authz.MalformedToken,
		authz.InvalidSignature, authz.TokenExpired, authz.UnknownSigningKey,
		authz.UnsupportedAlgorithm, authz.InvalidClaims,
	}
	for _, k := range unauthorized {
		require.Equal(t, http.StatusUnauthorized, k.Status(), k.String())
		require.NotEmpty(t, k.Message(), k.String())
	}

	require.Equal(t, http.StatusForbidden, authz.InsufficientPermission.Status())
	require.Equal(t, http.StatusForbidden, authz.PermissionsClaimMissing.Status())
	require.Equal(t, http.StatusServiceUnavailable, authz.KeySetUnavailable.Status())
	require.Equal(t, "kind(99)", authz.Kind(99).String())
}
