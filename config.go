package commity

import (
	"time"

	"go.uber.org/zap"
)

// SiteConfig holds all configuration for a Commity deployment.
type SiteConfig struct {
	Name string // Site name (default "Commity")
	URL  string // Canonical URL (default "http://localhost:3000")

	Addr string // Listen address (default ":3000")

	GitHubClientID     string // Required: GitHub OAuth app client id
	GitHubClientSecret string // Required: GitHub OAuth app client secret
	OAuthCallbackURL   string // OAuth callback (default URL + "/auth/callback")

	SessionSecret string // Required: session cookie encryption secret
	CookieSecure  bool   // Set true for HTTPS deployments

	MaxUploadBytes int64 // Asset upload cap (default 10MB)

	PublishMax    int           // Write operations allowed per IP per window (default 10)
	PublishWindow time.Duration // Rate limit window (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Commity"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.OAuthCallbackURL == "" {
		c.OAuthCallbackURL = c.URL + "/auth/callback"
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 10 << 20
	}
	if c.PublishMax == 0 {
		c.PublishMax = 10
	}
	if c.PublishWindow == 0 {
		c.PublishWindow = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the zap logger used by the app and the publisher.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		a.Log = log
	}
}

// WithCustomRoutes registers additional routes on the Echo instance before
// the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStoreFactory replaces the GitHub-backed content store constructor.
// Tests use it to swap in fakes without a network.
func WithStoreFactory(fn func(token string) GitHubStore) Option {
	return func(a *App) {
		a.newStore = fn
	}
}
