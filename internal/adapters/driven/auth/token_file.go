package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// TokenFileSource is an oauth2.TokenSource backed by a token JSON file.
// The file holds an oauth2.Token (access token, refresh token, expiry)
// written by an external OAuth flow. Refreshed tokens are persisted back
// so later runs start from a valid token.
type TokenFileSource struct {
	mu   sync.Mutex
	path string
	src  oauth2.TokenSource
}

// NewTokenFileSource loads the token file and wraps it in a refreshing
// TokenSource built from the OAuth client configuration.
func NewTokenFileSource(ctx context.Context, path string, cfg *oauth2.Config) (*TokenFileSource, error) {
	tok, err := readTokenFile(path)
	if err != nil {
		return nil, err
	}
	return &TokenFileSource{
		path: path,
		src:  cfg.TokenSource(ctx, tok),
	}, nil
}

// Token returns a valid token, refreshing through the underlying source
// and persisting any rotation back to the token file.
func (s *TokenFileSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	// Best effort: a failed write means the next run refreshes again.
	if data, err := json.Marshal(tok); err == nil {
		_ = os.WriteFile(s.path, data, 0o600)
	}
	return tok, nil
}

// readTokenFile parses an oauth2.Token from a JSON file.
func readTokenFile(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	return &tok, nil
}
