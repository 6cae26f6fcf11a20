package tokenstore

import (
	"context"
	"time"
)

// expirySkew is the safety margin subtracted from a token's computed expiry
// to absorb clock drift and in-flight request latency.
const expirySkew = 60 * time.Second

// Token is the persisted OAuth token record.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ObtainedAt   int64  `json:"obtained_at"`
}

// Valid reports whether the token can still be used at the given time.
func (t *Token) Valid(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	expiry := time.Unix(t.ObtainedAt, 0).Add(time.Duration(t.ExpiresIn) * time.Second)
	return now.Before(expiry.Add(-expirySkew))
}

// Store persists a single token record.
// Load returns (nil, nil) when no record has been saved yet.
type Store interface {
	Load(ctx context.Context) (*Token, error)
	Save(ctx context.Context, tok *Token) error
	Close() error
}
