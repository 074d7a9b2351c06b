package app

import (
	"net/http"
	"time"

	commonhttp "wiz-graphql-proxy/internal/common/http"
	"wiz-graphql-proxy/internal/common/logging"
	"wiz-graphql-proxy/internal/config"
	"wiz-graphql-proxy/internal/oauth2"
)

// Timeouts for the two outbound legs of a proxied request.
const (
	tokenRequestTimeout    = 30 * time.Second
	upstreamRequestTimeout = 60 * time.Second
)

// App holds the proxy's dependencies
type App struct {
	Config   *config.Config
	Tokens   *oauth2.Manager
	Upstream *http.Client
	Logger   logging.Logger

	tokenClient *http.Client
}

// New creates the application with its dependencies wired
func New(cfg *config.Config) *App {
	tokenClient := commonhttp.NewHTTPClientWithTimeout(tokenRequestTimeout)

	return &App{
		Config: cfg,
		Tokens: oauth2.NewManager(oauth2.Credentials{
			AuthURL:      cfg.WizAuthURL,
			ClientID:     cfg.WizClientID,
			ClientSecret: cfg.WizClientSecret,
			Audience:     cfg.WizAudience,
		}, tokenClient),
		Upstream:    commonhttp.NewHTTPClientWithTimeout(upstreamRequestTimeout),
		Logger:      logging.WithFields(logging.String("component", "app")),
		tokenClient: tokenClient,
	}
}

// Cleanup releases pooled connections
func (app *App) Cleanup() {
	app.Upstream.CloseIdleConnections()
	app.tokenClient.CloseIdleConnections()
}
