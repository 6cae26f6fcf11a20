package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "https://api.emplifi.io/3", cfg.APIBase)
		assert.Equal(t, "https://api.emplifi.io/oauth/2", cfg.OAuthBase)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, 50*time.Millisecond, cfg.RetryBackoff)
		assert.Equal(t, "api.read offline_access", cfg.Scopes)
		assert.Equal(t, "file", cfg.TokenStore)
		assert.NotEmpty(t, cfg.TokenPath)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 30*time.Minute, cfg.WatchInterval)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("EMPLIFI_API_BASE", "http://localhost:9999/3")
		os.Setenv("EMPLIFI_TOKEN", "tok")
		os.Setenv("EMPLIFI_SECRET", "sec")
		os.Setenv("EMPLIFI_TIMEOUT", "5")
		os.Setenv("EMPLIFI_MAX_RETRIES", "5")
		os.Setenv("EMPLIFI_TOKEN_PATH", "/custom/token.json")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9999/3", cfg.APIBase)
		assert.Equal(t, "tok", cfg.BasicToken)
		assert.Equal(t, "sec", cfg.BasicSecret)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, "/custom/token.json", cfg.TokenPath)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("EMPLIFI_TIMEOUT", "notanumber")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EMPLIFI_TIMEOUT")
	})

	t.Run("invalid backoff", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("EMPLIFI_RETRY_BACKOFF", "fast")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EMPLIFI_RETRY_BACKOFF")
	})
}

func TestConfig_CredentialChecks(t *testing.T) {
	t.Run("basic only", func(t *testing.T) {
		cfg := &Config{BasicToken: "tok", BasicSecret: "sec"}
		assert.True(t, cfg.HasBasic())
		assert.False(t, cfg.HasOAuth())
	})

	t.Run("oauth requires all three fields", func(t *testing.T) {
		cfg := &Config{ClientID: "id", ClientSecret: "secret"}
		assert.False(t, cfg.HasOAuth())

		cfg.RedirectURI = "http://localhost:8765/callback"
		assert.True(t, cfg.HasOAuth())
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{APIBase: "https://api.emplifi.io/3", TokenStore: "file"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad token store", func(t *testing.T) {
		cfg := &Config{APIBase: "https://api.emplifi.io/3", TokenStore: "redis"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("auth requires some credentials", func(t *testing.T) {
		cfg := &Config{APIBase: "https://api.emplifi.io/3", TokenStore: "file"}
		assert.Error(t, cfg.ValidateForAuth())

		cfg.BasicToken = "tok"
		cfg.BasicSecret = "sec"
		assert.NoError(t, cfg.ValidateForAuth())
	})

	t.Run("login requires oauth", func(t *testing.T) {
		cfg := &Config{
			APIBase:     "https://api.emplifi.io/3",
			TokenStore:  "file",
			BasicToken:  "tok",
			BasicSecret: "sec",
		}
		assert.Error(t, cfg.ValidateForLogin())

		cfg.ClientID = "id"
		cfg.ClientSecret = "secret"
		cfg.RedirectURI = "http://localhost:8765/callback"
		assert.NoError(t, cfg.ValidateForLogin())
	})
}

func TestConfig_Endpoints(t *testing.T) {
	cfg := &Config{OAuthBase: "https://api.emplifi.io/oauth/2"}
	assert.Equal(t, "https://api.emplifi.io/oauth/2/auth", cfg.AuthURL())
	assert.Equal(t, "https://api.emplifi.io/oauth/2/token", cfg.TokenURL())
}
