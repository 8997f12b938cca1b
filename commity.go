// Package commity is a content authoring service that publishes blog posts
// as static HTML files into the /blogs folder of a GitHub repository. GitHub
// itself is the persistence layer: every durable change is a commit made
// through the contents API, and there is no database behind the service.
package commity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/commity/commity/contents"
	"github.com/commity/commity/publish"
)

// GitHubStore is everything the HTTP layer needs from the hosting API: the
// publishing operations plus the repository listing for the dashboard.
type GitHubStore interface {
	publish.ContentStore
	ListRepos(ctx context.Context) ([]contents.Repo, error)
}

// ViewFuncs holds the templ components the app renders for page routes.
// Deployments own the templates; the app owns handlers and middleware.
type ViewFuncs struct {
	Home        func() templ.Component
	Dashboard   func() templ.Component
	Editor      func(csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central Commity application. It wires together the GitHub
// content store, the publisher, handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Log    *zap.Logger
	Views  ViewFuncs

	publisher    *publish.Publisher
	writeLimiter *writeLimiter
	newStore     func(token string) GitHubStore
	customRoutes []func(*App)
}

// New creates a new Commity App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Log:    zap.NewNop(),
		Views:  views,
	}
	a.newStore = func(token string) GitHubStore {
		return contents.NewClient(token)
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes middleware and routes and starts the HTTP server. It
// blocks until the server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init validates required configuration and wires middleware, routes, and
// the publishing core.
func (a *App) init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("commity: SessionSecret is required")
	}
	if a.Config.GitHubClientID == "" || a.Config.GitHubClientSecret == "" {
		return fmt.Errorf("commity: GitHub OAuth credentials are required")
	}

	a.publisher = publish.NewPublisher(a.Log.Named("publish"))
	a.writeLimiter = newWriteLimiter(a.Config.PublishMax, a.Config.PublishWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", handleHealth)

	// Page shells. The editor itself is a client-side rich-text surface;
	// these routes only serve its container.
	e.GET("/", a.handleHome)
	e.GET("/dashboard", a.handleDashboard)
	e.GET("/editor", a.handleEditor)

	// GitHub OAuth exchange.
	e.GET("/auth/login", a.handleLogin)
	e.GET("/auth/callback", a.handleCallback)
	e.POST("/auth/logout", a.handleLogout)

	// JSON API consumed by the editing surface.
	e.GET("/api/repos", a.handleListRepos)
	e.POST("/api/publish", a.handlePublish)
	e.POST("/api/assets", a.handleUploadAsset)
}
