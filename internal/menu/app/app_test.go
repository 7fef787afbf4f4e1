package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aizuanjeme/coffeShop/internal/menu/domain"
	"github.com/aizuanjeme/coffeShop/pkg/jwtx/jwtxtest"
	"github.com/aizuanjeme/coffeShop/pkg/menusdk"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "https://shop.eu.auth0.com/")
	t.Setenv("AUTH_AUDIENCE", "coffee")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "RS256", cfg.Algorithm)
	require.Equal(t, 5*time.Second, cfg.JWKSTimeout)
	require.Zero(t, cfg.JWKSRefreshInterval)
	require.Equal(t, "menu.db", cfg.DatabaseFile)
	require.Equal(t, "*", cfg.CORSOrigin)
	require.True(t, cfg.Seed)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, []string{"coffee"}, cfg.Audiences())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "https://shop.eu.auth0.com/")
	t.Setenv("AUTH_AUDIENCE", "coffee, coffee-admin")
	t.Setenv("AUTH_JWKS_REFRESH_INTERVAL", "30m")
	t.Setenv("AUTH_LEEWAY", "2s")
	t.Setenv("MENU_SEED", "false")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"coffee", "coffee-admin"}, cfg.Audiences())
	require.Equal(t, 30*time.Minute, cfg.JWKSRefreshInterval)
	require.Equal(t, 2*time.Second, cfg.Leeway)
	require.False(t, cfg.Seed)
	require.Equal(t, 9090, cfg.Port)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Issuer:      "https://shop.eu.auth0.com/",
		Audience:    "coffee",
		Algorithm:   "RS256",
		JWKSTimeout: time.Second,
		Port:        8080,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing issuer", func(c *Config) { c.Issuer = "" }},
		{"blank audience", func(c *Config) { c.Audience = " , " }},
		{"symmetric algorithm", func(c *Config) { c.Algorithm = "HS256" }},
		{"jwks url with discovery", func(c *Config) { c.JWKSURL = "https://x/jwks"; c.OIDCDiscovery = true }},
		{"zero timeout", func(c *Config) { c.JWKSTimeout = 0 }},
		{"negative leeway", func(c *Config) { c.Leeway = -time.Second }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestApplicationServesMenu(t *testing.T) {
	key := jwtxtest.NewKey(t, "key-1")
	idp := jwtxtest.NewJWKSServer(t, key)

	cfg := Config{
		Issuer:              idp.Issuer(),
		Audience:            "coffee",
		Algorithm:           "RS256",
		OIDCDiscovery:       true,
		JWKSTimeout:         5 * time.Second,
		DatabaseFile:        filepath.Join(t.TempDir(), "menu.db"),
		Seed:                true,
		ShutdownGracePeriod: time.Second,
	}
	app, err := NewWithLogger(context.Background(), cfg, discard)
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = app.db.Close() })

	client := menusdk.NewClient(srv.URL)
	drinks, err := client.ListDrinks(context.Background())
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	require.Equal(t, "water", drinks[0].Title)

	token := key.Sign(t, jwtxtest.NewClaims(idp.Issuer(), "coffee", time.Now(), time.Hour, domain.PermGetDrinksDetail))
	detail, err := client.WithToken(token).DrinksDetail(context.Background())
	require.NoError(t, err)
	require.Equal(t, "water", detail[0].Recipe[0].Name)

	_, err = client.WithToken(token).DeleteDrink(context.Background(), drinks[0].ID)
	require.True(t, menusdk.IsStatus(err, http.StatusForbidden))

	ready, err := client.GetReadiness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
}

func TestNewFailsWhenDiscoveryFails(t *testing.T) {
	idp := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(idp.Close)

	_, err := NewWithLogger(context.Background(), Config{
		Issuer:        idp.URL + "/",
		Audience:      "coffee",
		Algorithm:     "RS256",
		OIDCDiscovery: true,
		JWKSTimeout:   time.Second,
		DatabaseFile:  filepath.Join(t.TempDir(), "menu.db"),
	}, discard)
	require.ErrorContains(t, err, "discover jwks_uri")
}
