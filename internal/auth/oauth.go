package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/abdulachik/emplifi/internal/tokenstore"
)

// callbackTimeout bounds the wait for the authorization redirect.
const callbackTimeout = 300 * time.Second

// OAuthProvider manages an OAuth2 token: it serves Bearer headers while the
// token is valid, refreshes it when a refresh token is available, and runs
// the interactive authorization-code flow only when explicitly asked to via
// Login. Headers never triggers an interactive flow.
type OAuthProvider struct {
	cfg        Config
	store      tokenstore.Store
	httpClient *http.Client

	mu     sync.Mutex
	token  *tokenstore.Token
	loaded bool

	// test seams
	now         func() time.Time
	openBrowser func(url string)
	waitBound   time.Duration
}

// NewOAuthProvider builds an OAuth provider backed by the given token store.
func NewOAuthProvider(cfg Config, store tokenstore.Store) (*OAuthProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURI == "" {
		return nil, fmt.Errorf("oauth requires client id, client secret and redirect URI: %w", ErrNoCredentials)
	}
	if store == nil {
		return nil, fmt.Errorf("oauth requires a token store")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OAuthProvider{
		cfg:         cfg,
		store:       store,
		httpClient:  &http.Client{Timeout: timeout},
		now:         time.Now,
		openBrowser: openBrowser,
		waitBound:   callbackTimeout,
	}, nil
}

// Headers returns Bearer headers for the current token, refreshing it first
// when expired and a refresh token exists. With no usable token it fails
// fast: the interactive flow is only reachable through Login.
func (p *OAuthProvider) Headers(ctx context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(ctx); err != nil {
		return nil, err
	}

	if !p.token.Valid(p.now()) {
		if p.token == nil || p.token.RefreshToken == "" {
			return nil, &Error{Op: "headers", Msg: "no valid token and no refresh token; run login first"}
		}
		if err := p.refreshLocked(ctx); err != nil {
			return nil, &Error{Op: "refresh", Msg: "token refresh failed", Err: err}
		}
	}

	return map[string]string{
		"Authorization": "Bearer " + p.token.AccessToken,
		"Content-Type":  "application/json",
	}, nil
}

// Login bootstraps a usable token. A still-valid stored token is kept as is,
// an expired one with a refresh token is refreshed, and only when neither
// works does the interactive authorization flow start: a browser is opened
// on the authorization URL and a local listener on the redirect URI waits
// for the callback.
func (p *OAuthProvider) Login(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(ctx); err != nil {
		return err
	}

	if p.token.Valid(p.now()) {
		slog.Info("stored token is still valid")
		return nil
	}

	if p.token != nil && p.token.RefreshToken != "" {
		err := p.refreshLocked(ctx)
		if err == nil {
			slog.Info("token refreshed")
			return nil
		}
		slog.Warn("token refresh failed, starting interactive login", "error", err)
	}

	return p.interactiveLocked(ctx)
}

// loadLocked reads the stored token once. Callers must hold mu.
func (p *OAuthProvider) loadLocked(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	tok, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load stored token: %w", err)
	}
	p.token = tok
	p.loaded = true
	return nil
}

// tokenResponse is the token endpoint's reply for both grant types.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// refreshLocked exchanges the refresh token for a new token record and
// persists it. Callers must hold mu.
func (p *OAuthProvider) refreshLocked(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", p.token.RefreshToken)

	tok, err := p.tokenRequest(ctx, form)
	if err != nil {
		return err
	}

	// Some servers omit the refresh token on refresh; keep the old one.
	if tok.RefreshToken == "" {
		tok.RefreshToken = p.token.RefreshToken
	}

	return p.adoptLocked(ctx, tok)
}

// interactiveLocked runs the full authorization-code flow. Callers must hold mu.
func (p *OAuthProvider) interactiveLocked(ctx context.Context) error {
	redirect, err := url.Parse(p.cfg.RedirectURI)
	if err != nil {
		return &Error{Op: "login", Msg: "invalid redirect URI", Err: err}
	}

	state, err := randomState()
	if err != nil {
		return &Error{Op: "login", Msg: "generate state", Err: err}
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", p.cfg.ClientID)
	params.Set("redirect_uri", p.cfg.RedirectURI)
	if p.cfg.Scopes != "" {
		params.Set("scope", p.cfg.Scopes)
	}
	params.Set("state", state)
	authURL := p.cfg.AuthURL + "?" + params.Encode()

	code, err := p.waitForCallback(ctx, redirect, authURL, state)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.cfg.RedirectURI)

	tok, err := p.tokenRequest(ctx, form)
	if err != nil {
		return &Error{Op: "login", Msg: "code exchange failed", Err: err}
	}

	if err := p.adoptLocked(ctx, tok); err != nil {
		return err
	}
	slog.Info("authorization complete", "scope", tok.Scope)
	return nil
}

// waitForCallback serves the redirect URI on a local socket until the
// authorization callback arrives, the wait bound elapses, or ctx is
// cancelled. The socket is closed on every exit path.
func (p *OAuthProvider) waitForCallback(ctx context.Context, redirect *url.URL, authURL, state string) (string, error) {
	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)

	path := redirect.Path
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var res result
		switch {
		case q.Get("error") != "":
			res.err = &Error{Op: "login", Msg: "authorization denied: " + q.Get("error")}
		case q.Get("state") != state:
			res.err = &Error{Op: "login", Msg: "state mismatch in callback"}
		case q.Get("code") == "":
			res.err = &Error{Op: "login", Msg: "callback carried no authorization code"}
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Authorization failed. You can close this window.")
		} else {
			fmt.Fprintln(w, "Authorization complete. You can close this window.")
		}

		select {
		case results <- res:
		default: // a previous callback already decided the outcome
		}
	})

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return "", &Error{Op: "login", Msg: "listen on " + redirect.Host, Err: err}
	}

	srv := &http.Server{Handler: mux}
	go srv.Serve(listener)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
		}
	}()

	slog.Info("waiting for authorization", "url", authURL)
	p.openBrowser(authURL)

	select {
	case res := <-results:
		return res.code, res.err
	case <-time.After(p.waitBound):
		return "", &Error{Op: "login", Msg: "timeout waiting for authorization callback"}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// tokenRequest POSTs the form to the token endpoint authenticated with the
// client's Basic credentials and returns the resulting token record.
func (p *OAuthProvider) tokenRequest(ctx context.Context, form url.Values) (*tokenstore.Token, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", p.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	return &tokenstore.Token{
		AccessToken:  tr.AccessToken,
		TokenType:    tr.TokenType,
		ExpiresIn:    tr.ExpiresIn,
		RefreshToken: tr.RefreshToken,
		Scope:        tr.Scope,
		ObtainedAt:   p.now().Unix(),
	}, nil
}

// adoptLocked installs and persists a freshly acquired token. Callers must
// hold mu.
func (p *OAuthProvider) adoptLocked(ctx context.Context, tok *tokenstore.Token) error {
	p.token = tok
	p.loaded = true
	if err := p.store.Save(ctx, tok); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
