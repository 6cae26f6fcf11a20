// Package auth produces authorization headers for the Emplifi API,
// either from static Basic credentials or through the OAuth2
// authorization-code flow with refresh.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdulachik/emplifi/internal/tokenstore"
)

// ErrNoCredentials indicates that no usable credential set is configured.
var ErrNoCredentials = errors.New("no usable credentials configured")

// Error reports an authentication flow failure.
type Error struct {
	Op  string // "login", "refresh" or "headers"
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("auth %s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Provider yields a current set of authorization headers for API requests.
type Provider interface {
	Headers(ctx context.Context) (map[string]string, error)
}

// Config holds the credential configuration a provider is built from.
type Config struct {
	// OAuth client
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       string
	AuthURL      string
	TokenURL     string

	// Static Basic credentials
	Token  string
	Secret string

	// Timeout for token endpoint requests
	Timeout time.Duration
}

// NewProvider selects a provider from the configuration. A complete OAuth
// client configuration takes precedence over Basic credentials when both
// are present.
func NewProvider(cfg Config, store tokenstore.Store) (Provider, error) {
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RedirectURI != "" {
		return NewOAuthProvider(cfg, store)
	}
	if cfg.Token != "" && cfg.Secret != "" {
		return NewBasicProvider(cfg.Token, cfg.Secret)
	}
	return nil, fmt.Errorf("selecting auth provider: %w", ErrNoCredentials)
}
