// Command commity runs the Commity publishing server. All configuration
// comes from COMMITY_-prefixed environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/commity/commity"
	"github.com/commity/commity/views"
)

// version is set at build time via ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

var konfig = koanf.New(".")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "commity",
		Usage:   "Publish blog posts from the browser straight into a GitHub repository",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			if err := konfig.Load(env.Provider(".", env.Opt{
				Prefix: "COMMITY_",
				TransformFunc: func(k, v string) (string, any) {
					return strings.ToLower(strings.TrimPrefix(k, "COMMITY_")), v
				},
			}), nil); err != nil {
				return ctx, fmt.Errorf("load env: %w", err)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serve,
			},
		},
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := commity.SiteConfig{
		Name:               konfig.String("site_name"),
		URL:                konfig.String("site_url"),
		Addr:               konfig.String("addr"),
		GitHubClientID:     konfig.String("github_client_id"),
		GitHubClientSecret: konfig.String("github_client_secret"),
		OAuthCallbackURL:   konfig.String("oauth_callback_url"),
		SessionSecret:      konfig.String("session_secret"),
		CookieSecure:       konfig.Bool("cookie_secure"),
	}

	app := commity.New(cfg, views.Default(), commity.WithLogger(logger))

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
