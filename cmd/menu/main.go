package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/aizuanjeme/coffeShop/internal/menu/app"
	"github.com/aizuanjeme/coffeShop/pkg/slogx"
)

type CLI struct {
	Serve   ServeCmd         `cmd:"" default:"1" help:"Run the menu API server (default)."`
	JWKS    JWKSCmd          `cmd:"" name:"jwks" help:"Fetch the identity provider's signing keys and print their ids."`
	Version kong.VersionFlag `help:"Print the version and exit."`
}

type ServeCmd struct{}

func (c *ServeCmd) Run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

type JWKSCmd struct{}

func (c *JWKSCmd) Run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	logger := slogx.New(slogx.Config{
		Service: "menu-cli",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  "text",
		Output:  os.Stderr,
	})

	resolver, err := app.NewKeyResolver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	ks, err := resolver.KeySet(ctx)
	if err != nil {
		return err
	}

	for _, kid := range ks.KeyIDs() {
		key, _ := ks.Get(kid)
		fmt.Printf("%s\t%s\n", kid, key.Algorithm)
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("menu"),
		kong.Description("Coffee shop drinks menu service."),
		kong.Vars{"version": app.BuildVersion},
	)
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(); err != nil {
		slog.Error("menu failed", "error", err)
		os.Exit(1)
	}
}
