// Package app wires configuration, token storage, authentication and the
// listening client into one container the commands can share.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdulachik/emplifi/internal/auth"
	"github.com/abdulachik/emplifi/internal/config"
	"github.com/abdulachik/emplifi/internal/listening"
	"github.com/abdulachik/emplifi/internal/tokenstore"
	"github.com/abdulachik/emplifi/internal/transport"
)

// App is the main application container holding all dependencies.
type App struct {
	Config *config.Config
	Tokens tokenstore.Store
	Auth   auth.Provider
	Client *listening.Client
}

// New creates an application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := tokenstore.New(ctx, cfg.TokenStore, cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	provider, err := auth.NewProvider(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		AuthURL:      cfg.AuthURL(),
		TokenURL:     cfg.TokenURL(),
		Token:        cfg.BasicToken,
		Secret:       cfg.BasicSecret,
		Timeout:      cfg.Timeout,
	}, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	exec := transport.NewExecutor(transport.Config{
		Client:     &http.Client{Timeout: cfg.Timeout},
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.RetryBackoff,
	})

	client := listening.New(listening.Config{
		BaseURL:  cfg.APIBase,
		Auth:     provider,
		Executor: exec,
	})

	return &App{
		Config: cfg,
		Tokens: store,
		Auth:   provider,
		Client: client,
	}, nil
}

// OAuth returns the OAuth provider when OAuth credentials are configured,
// or nil when running on basic auth.
func (a *App) OAuth() *auth.OAuthProvider {
	p, _ := a.Auth.(*auth.OAuthProvider)
	return p
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Tokens != nil {
		return a.Tokens.Close()
	}
	return nil
}
