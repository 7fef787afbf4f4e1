package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
	"github.com/joeshaw/envdecode"
)

// Config is read from the environment. Defaults live in the struct tags.
type Config struct {
	Issuer   string `env:"AUTH_ISSUER"`   // Required: trusted token issuer, e.g. https://shop.eu.auth0.com/
	Audience string `env:"AUTH_AUDIENCE"` // Required: expected audience; a comma separated list accepts any of them

	Algorithm           string        `env:"AUTH_ALGORITHM,default=RS256"`
	JWKSURL             string        `env:"AUTH_JWKS_URL"`                         // Optional: defaults to <issuer>/.well-known/jwks.json
	OIDCDiscovery       bool          `env:"AUTH_OIDC_DISCOVERY,default=false"`     // Resolve jwks_uri from the issuer's discovery document
	JWKSTimeout         time.Duration `env:"AUTH_JWKS_TIMEOUT,default=5s"`          // Bound on a single key fetch
	JWKSRefreshInterval time.Duration `env:"AUTH_JWKS_REFRESH_INTERVAL,default=0s"` // Background refresh period, 0 disables it
	Leeway              time.Duration `env:"AUTH_LEEWAY,default=0s"`                // Clock skew tolerated on exp and nbf

	DatabaseFile string `env:"MENU_DATABASE_FILE,default=menu.db"`
	Seed         bool   `env:"MENU_SEED,default=true"` // Put a sample drink on an empty menu
	CORSOrigin   string `env:"MENU_CORS_ORIGIN,default=*"`

	Env                 string        `env:"ENV,default=dev"`
	LogLevel            string        `env:"LOG_LEVEL,default=info"`
	LogFormat           string        `env:"LOG_FORMAT,default=json"`
	Port                int           `env:"PORT,default=8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD,default=10s"`
}

// LoadConfig decodes the environment into a Config and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting the service cannot start with.
func (c Config) Validate() error {
	if c.Issuer == "" {
		return errors.New("config: AUTH_ISSUER is required")
	}
	if len(c.Audiences()) == 0 {
		return errors.New("config: AUTH_AUDIENCE is required")
	}
	if c.Algorithm != jwtx.AlgRS256 {
		return fmt.Errorf("config: AUTH_ALGORITHM %q is not supported", c.Algorithm)
	}
	if c.JWKSURL != "" && c.OIDCDiscovery {
		return errors.New("config: AUTH_JWKS_URL and AUTH_OIDC_DISCOVERY are mutually exclusive")
	}
	if c.JWKSTimeout <= 0 {
		return errors.New("config: AUTH_JWKS_TIMEOUT must be positive")
	}
	if c.JWKSRefreshInterval < 0 || c.Leeway < 0 {
		return errors.New("config: durations must not be negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	return nil
}

// Audiences splits AUTH_AUDIENCE on commas.
func (c Config) Audiences() []string {
	var out []string
	for _, a := range strings.Split(c.Audience, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
