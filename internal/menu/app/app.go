package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpapi "github.com/aizuanjeme/coffeShop/internal/menu/http"
	"github.com/aizuanjeme/coffeShop/internal/menu/service"
	"github.com/aizuanjeme/coffeShop/internal/menu/store"
	"github.com/aizuanjeme/coffeShop/internal/menu/store/drivers/sqlite"
	"github.com/aizuanjeme/coffeShop/pkg/authz"
	"github.com/aizuanjeme/coffeShop/pkg/httpx"
	"github.com/aizuanjeme/coffeShop/pkg/jwtx"
	"github.com/aizuanjeme/coffeShop/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application owns every long-lived dependency of the menu service. It is
// built once by New, then Run, then Shutdown.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	resolver *jwtx.Resolver
	gate     *authz.Gate

	keyRefreshService *service.KeyRefreshService // nil unless AUTH_JWKS_REFRESH_INTERVAL is set

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with all dependencies initialized.
func New(ctx context.Context, cfg Config) (*Application, error) {
	return NewWithLogger(ctx, cfg, slogx.New(slogx.Config{
		Service: "menu-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}))
}

// NewWithLogger is New with a caller supplied logger.
func NewWithLogger(ctx context.Context, cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initAuth(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler is the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (app *Application) Run(ctx context.Context) error {
	if app.keyRefreshService != nil {
		app.keyRefreshService.Start()
	} else {
		go app.warmKeys(ctx)
	}

	app.logger.Info("menu service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down menu service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.keyRefreshService != nil {
		app.keyRefreshService.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("menu service stopped")
	return nil
}

// warmKeys loads the key set once so the first protected request does not
// pay for the fetch. Failure is not fatal: requests retry the load.
func (app *Application) warmKeys(ctx context.Context) {
	if _, err := app.resolver.KeySet(ctx); err != nil {
		app.logger.Warn("initial key set load failed", "error", err)
	}
}

func (app *Application) initDatabase(ctx context.Context) error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully")

	if app.cfg.Seed {
		drinks := &service.DrinkService{Store: db}
		if err := drinks.SeedIfEmpty(ctx, app.logger); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to seed menu: %w", err)
		}
	}
	return nil
}

func (app *Application) initAuth(ctx context.Context) error {
	resolver, err := NewKeyResolver(ctx, app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.resolver = resolver

	verifier := jwtx.NewVerifier(resolver, jwtx.VerifyOptions{
		Issuer:    app.cfg.Issuer,
		Audience:  app.cfg.Audiences(),
		Algorithm: app.cfg.Algorithm,
		Leeway:    app.cfg.Leeway,
	})
	app.gate = authz.NewGate(verifier)

	if app.cfg.JWKSRefreshInterval > 0 {
		app.keyRefreshService = service.NewKeyRefreshService(resolver, app.logger, app.cfg.JWKSRefreshInterval)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.gate,
		app.resolver,
		BuildVersion,
		app.db,
		httpx.RateLimitsFromEnv(),
		app.cfg.CORSOrigin,
		app.logger,
	)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
