package auth

import (
	"context"
	"encoding/base64"
	"fmt"
)

// BasicProvider serves a fixed Basic authorization header computed once
// from a token/secret pair.
type BasicProvider struct {
	headers map[string]string
}

// NewBasicProvider builds a provider from static credentials.
func NewBasicProvider(token, secret string) (*BasicProvider, error) {
	if token == "" || secret == "" {
		return nil, fmt.Errorf("basic auth requires both token and secret: %w", ErrNoCredentials)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(token + ":" + secret))
	return &BasicProvider{
		headers: map[string]string{
			"Authorization": "Basic " + encoded,
			"Content-Type":  "application/json",
		},
	}, nil
}

// Headers returns the precomputed headers. It never fails.
func (p *BasicProvider) Headers(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(p.headers))
	for k, v := range p.headers {
		out[k] = v
	}
	return out, nil
}
