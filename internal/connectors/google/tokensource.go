package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
)

// TokenSourceAdapter exposes a TokenProvider as an oauth2.TokenSource so a
// Drive service can be built from any catsync token provider, including the
// static environment-backed one.
type TokenSourceAdapter struct {
	provider driven.TokenProvider
	ctx      context.Context
}

// NewTokenSource wraps provider for use with option.WithTokenSource.
func NewTokenSource(ctx context.Context, provider driven.TokenProvider) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider: provider,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.GetToken(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
