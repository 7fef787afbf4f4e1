package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	menuhttp "github.com/aizuanjeme/coffeShop/internal/menu/http"
	"github.com/aizuanjeme/coffeShop/internal/menu/domain"
	"github.com/aizuanjeme/coffeShop/internal/menu/store/drivers/sqlite"
	"github.com/aizuanjeme/coffeShop/pkg/authz"
	"github.com/aizuanjeme/coffeShop/pkg/httpx"
	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
	"github.com/aizuanjeme/coffeShop/pkg/jwtx/jwtxtest"
	"github.com/aizuanjeme/coffeShop/pkg/menusdk"
	"github.com/stretchr/testify/require"
)

const audience = "coffee"

var roomy = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 1000}

type fixture struct {
	key      *jwtxtest.Key
	idp      *jwtxtest.JWKSServer
	resolver *jwtx.Resolver
	router   *menuhttp.Router
}

func newFixture(t *testing.T, limits httpx.RateLimits) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "menu.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	key := jwtxtest.NewKey(t, "key-1")
	idp := jwtxtest.NewJWKSServer(t, key)
	resolver := jwtx.NewResolver(jwtx.NewHTTPFetcher(idp.Issuer(), "", idp.Client()), jwtx.ResolverOptions{})
	verifier := jwtx.NewVerifier(resolver, jwtx.VerifyOptions{Issuer: idp.Issuer(), Audience: []string{audience}})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := menuhttp.NewRouter(authz.NewGate(verifier), resolver, "test", st, limits, "", logger)
	router.ApplyRoutes()

	return &fixture{key: key, idp: idp, resolver: resolver, router: router}
}

func newDefaultFixture(t *testing.T) *fixture {
	return newFixture(t, httpx.RateLimits{Public: roomy, Lenient: roomy, Moderate: roomy})
}

func (f *fixture) token(t *testing.T, perms ...string) string {
	return f.key.Sign(t, jwtxtest.NewClaims(f.idp.Issuer(), audience, time.Now(), time.Hour, perms...))
}

func (f *fixture) seed(t *testing.T) domain.Drink {
	d, err := f.router.DrinkService.Create(context.Background(), domain.Drink{
		Title: "latte",
		Recipe: domain.Recipe{
			{Name: "espresso", Color: "brown", Parts: 1},
			{Name: "milk", Color: "white", Parts: 3},
		},
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code)
	require.Equal(t, httpx.ErrorResponse{Success: false, Error: status, Message: message}, decode[httpx.ErrorResponse](t, rec))
}

func TestListDrinksIsPublicAndShort(t *testing.T) {
	f := newDefaultFixture(t)
	d := f.seed(t)

	rec := f.do(http.MethodGet, "/drinks", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.NotContains(t, rec.Body.String(), "espresso")

	got := decode[menusdk.ShortDrinksResponse](t, rec)
	require.True(t, got.Success)
	require.Equal(t, []menusdk.ShortDrink{{
		ID:     d.ID,
		Title:  "latte",
		Recipe: []menusdk.ShortIngredient{{Color: "brown", Parts: 1}, {Color: "white", Parts: 3}},
	}}, got.Drinks)
}

func TestDrinksDetail(t *testing.T) {
	f := newDefaultFixture(t)
	f.seed(t)

	t.Run("no header", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/drinks-detail", "", "")
		requireError(t, rec, http.StatusUnauthorized, "Authorization header is expected.")
		require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong permission", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/drinks-detail", f.token(t, domain.PermPostDrinks), "")
		requireError(t, rec, http.StatusForbidden, "Permission not found.")
	})

	t.Run("no permissions claim", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/drinks-detail", f.token(t), "")
		requireError(t, rec, http.StatusForbidden, "Permissions not included in token.")
	})

	t.Run("expired token", func(t *testing.T) {
		token := f.key.Sign(t, jwtxtest.NewClaims(f.idp.Issuer(), audience, time.Now().Add(-2*time.Hour), time.Hour, domain.PermGetDrinksDetail))
		rec := f.do(http.MethodGet, "/drinks-detail", token, "")
		requireError(t, rec, http.StatusUnauthorized, "Token expired.")
	})

	t.Run("granted", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/drinks-detail", f.token(t, domain.PermGetDrinksDetail), "")
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[menusdk.DrinksResponse](t, rec)
		require.True(t, got.Success)
		require.Len(t, got.Drinks, 1)
		require.Equal(t, "espresso", got.Drinks[0].Recipe[0].Name)
	})
}

func TestCreateDrink(t *testing.T) {
	f := newDefaultFixture(t)
	token := f.token(t, domain.PermPostDrinks)

	t.Run("single ingredient recipe", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/drinks", token, `{"title":"water","recipe":{"name":"water","color":"blue","parts":1}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[menusdk.DrinksResponse](t, rec)
		require.True(t, got.Success)
		require.Len(t, got.Drinks, 1)
		require.NotZero(t, got.Drinks[0].ID)
		require.Equal(t, []menusdk.Ingredient{{Name: "water", Color: "blue", Parts: 1}}, got.Drinks[0].Recipe)
	})

	t.Run("duplicate title", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/drinks", token, `{"title":"water","recipe":[{"name":"water","color":"blue","parts":1}]}`)
		requireError(t, rec, http.StatusUnprocessableEntity, "Unprocessable")
	})

	t.Run("missing recipe", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/drinks", token, `{"title":"tea"}`)
		requireError(t, rec, http.StatusUnprocessableEntity, "Unprocessable")
	})

	t.Run("not json", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/drinks", token, `{"title":`)
		requireError(t, rec, http.StatusBadRequest, "Bad Request")
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/drinks", strings.NewReader("title=tea"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("needs post permission", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/drinks", f.token(t, domain.PermPatchDrinks), `{"title":"tea","recipe":[]}`)
		requireError(t, rec, http.StatusForbidden, "Permission not found.")
	})
}

func TestUpdateDrink(t *testing.T) {
	f := newDefaultFixture(t)
	d := f.seed(t)
	token := f.token(t, domain.PermPatchDrinks)

	rec := f.do(http.MethodPatch, "/drinks/999", token, `{"title":"mocha","recipe":[{"name":"chocolate","color":"brown","parts":1}]}`)
	requireError(t, rec, http.StatusNotFound, "resource not found")

	rec = f.do(http.MethodPatch, fmt.Sprintf("/drinks/%d", d.ID), token, `{"title":""}`)
	requireError(t, rec, http.StatusUnprocessableEntity, "Unprocessable")

	rec = f.do(http.MethodPatch, fmt.Sprintf("/drinks/%d", d.ID), token, `{"title":"mocha","recipe":[{"name":"chocolate","color":"brown","parts":1}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[menusdk.DrinksResponse](t, rec)
	require.True(t, got.Success)
	require.Equal(t, menusdk.Drink{ID: d.ID, Title: "mocha", Recipe: []menusdk.Ingredient{{Name: "chocolate", Color: "brown", Parts: 1}}}, got.Drinks[0])
}

func TestDeleteDrink(t *testing.T) {
	f := newDefaultFixture(t)
	d := f.seed(t)
	token := f.token(t, domain.PermDeleteDrinks)
	path := fmt.Sprintf("/drinks/%d", d.ID)

	rec := f.do(http.MethodDelete, path, f.token(t, domain.PermGetDrinksDetail), "")
	requireError(t, rec, http.StatusForbidden, "Permission not found.")

	rec = f.do(http.MethodDelete, path, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, menusdk.DeleteResponse{Success: true, Delete: d.ID}, decode[menusdk.DeleteResponse](t, rec))

	rec = f.do(http.MethodDelete, path, token, "")
	requireError(t, rec, http.StatusNotFound, "resource not found")

	rec = f.do(http.MethodDelete, "/drinks/latte", token, "")
	requireError(t, rec, http.StatusNotFound, "resource not found")
}

func TestRoutingFallbacks(t *testing.T) {
	f := newDefaultFixture(t)

	rec := f.do(http.MethodPut, "/drinks", "", "")
	requireError(t, rec, http.StatusMethodNotAllowed, "Method Not Allowed")
	require.Contains(t, rec.Header().Get("Allow"), "GET")

	rec = f.do(http.MethodGet, "/espresso-machine", "", "")
	requireError(t, rec, http.StatusNotFound, "resource not found")

	req := httptest.NewRequest(http.MethodOptions, "/drinks", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestKeySetUnavailable(t *testing.T) {
	f := newDefaultFixture(t)
	f.idp.SetStatus(http.StatusInternalServerError)

	rec := f.do(http.MethodGet, "/drinks-detail", f.token(t, domain.PermGetDrinksDetail), "")
	requireError(t, rec, http.StatusServiceUnavailable, "Unable to verify token at this time.")

	// The public menu does not depend on the identity provider.
	rec = f.do(http.MethodGet, "/drinks", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newDefaultFixture(t)

	rec := f.do(http.MethodGet, "/livez", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[menusdk.HealthResponse](t, rec).Status)

	rec = f.do(http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health := decode[menusdk.HealthResponse](t, rec)
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
	require.NotEqual(t, "ok", health.Checks.KeySet)

	_, err := f.resolver.KeySet(context.Background())
	require.NoError(t, err)

	rec = f.do(http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[menusdk.HealthResponse](t, rec).Checks.KeySet)
}

func TestMutationsAreRateLimited(t *testing.T) {
	tight := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 2}
	f := newFixture(t, httpx.RateLimits{Public: roomy, Lenient: roomy, Moderate: tight})

	for range 2 {
		rec := f.do(http.MethodDelete, "/drinks/1", "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := f.do(http.MethodDelete, "/drinks/1", "", "")
	requireError(t, rec, http.StatusTooManyRequests, "Too many requests. Please try again later.")
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = f.do(http.MethodGet, "/drinks", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
