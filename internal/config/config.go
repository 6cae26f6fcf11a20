package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Emplifi API
	APIBase   string        // Base URL for the Listening API (default: https://api.emplifi.io/3)
	OAuthBase string        // Base URL for OAuth endpoints (default: https://api.emplifi.io/oauth/2)
	Timeout   time.Duration // Per-request timeout

	// Basic auth credentials
	BasicToken  string
	BasicSecret string

	// OAuth credentials
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       string

	// Retry policy
	MaxRetries   int
	RetryBackoff time.Duration

	// Token persistence
	TokenStore string // "file" or "sqlite"
	TokenPath  string

	// Logging
	LogLevel string

	// Watch mode
	WatchInterval time.Duration
	WatchDaysBack int
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		APIBase:      getEnv("EMPLIFI_API_BASE", "https://api.emplifi.io/3"),
		OAuthBase:    getEnv("EMPLIFI_OAUTH_BASE", "https://api.emplifi.io/oauth/2"),
		BasicToken:   getEnv("EMPLIFI_TOKEN", ""),
		BasicSecret:  getEnv("EMPLIFI_SECRET", ""),
		ClientID:     getEnv("EMPLIFI_CLIENT_ID", ""),
		ClientSecret: getEnv("EMPLIFI_CLIENT_SECRET", ""),
		RedirectURI:  getEnv("EMPLIFI_REDIRECT_URI", ""),
		Scopes:       getEnv("EMPLIFI_SCOPES", "api.read offline_access"),
		TokenStore:   getEnv("EMPLIFI_TOKEN_STORE", "file"),
		TokenPath:    getEnv("EMPLIFI_TOKEN_PATH", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	// Parse durations
	var err error
	cfg.WatchInterval, err = time.ParseDuration(getEnv("EMPLIFI_WATCH_INTERVAL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLIFI_WATCH_INTERVAL: %w", err)
	}

	cfg.RetryBackoff, err = time.ParseDuration(getEnv("EMPLIFI_RETRY_BACKOFF", "50ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLIFI_RETRY_BACKOFF: %w", err)
	}

	// Parse integers
	timeoutSec, err := strconv.Atoi(getEnv("EMPLIFI_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLIFI_TIMEOUT: %w", err)
	}
	cfg.Timeout = time.Duration(timeoutSec) * time.Second

	cfg.MaxRetries, err = strconv.Atoi(getEnv("EMPLIFI_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLIFI_MAX_RETRIES: %w", err)
	}

	cfg.WatchDaysBack, err = strconv.Atoi(getEnv("EMPLIFI_WATCH_DAYS_BACK", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLIFI_WATCH_DAYS_BACK: %w", err)
	}

	if cfg.TokenPath == "" {
		cfg.TokenPath = defaultTokenPath(cfg.TokenStore)
	}

	return cfg, nil
}

// HasOAuth reports whether a complete OAuth client configuration is present.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}

// HasBasic reports whether static Basic credentials are present.
func (c *Config) HasBasic() bool {
	return c.BasicToken != "" && c.BasicSecret != ""
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("EMPLIFI_API_BASE is required")
	}
	switch c.TokenStore {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid EMPLIFI_TOKEN_STORE: %s (must be 'file' or 'sqlite')", c.TokenStore)
	}
	return nil
}

// ValidateForAuth checks that at least one usable credential set is configured.
func (c *Config) ValidateForAuth() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.HasOAuth() && !c.HasBasic() {
		return fmt.Errorf("no credentials configured: set EMPLIFI_TOKEN and EMPLIFI_SECRET, " +
			"or EMPLIFI_CLIENT_ID, EMPLIFI_CLIENT_SECRET and EMPLIFI_REDIRECT_URI")
	}
	return nil
}

// ValidateForLogin checks configuration needed for the interactive OAuth login.
func (c *Config) ValidateForLogin() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.HasOAuth() {
		return fmt.Errorf("OAuth login requires EMPLIFI_CLIENT_ID, EMPLIFI_CLIENT_SECRET and EMPLIFI_REDIRECT_URI")
	}
	return nil
}

// AuthURL returns the OAuth authorization endpoint.
func (c *Config) AuthURL() string {
	return c.OAuthBase + "/auth"
}

// TokenURL returns the OAuth token endpoint.
func (c *Config) TokenURL() string {
	return c.OAuthBase + "/token"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// defaultTokenPath places the token record under the user's home directory,
// falling back to the working directory when home cannot be resolved.
func defaultTokenPath(store string) string {
	name := "token.json"
	if store == "sqlite" {
		name = "emplifi.db"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", name)
	}
	return filepath.Join(home, ".emplifi", name)
}
