// Package auth provides token providers for catsync's external
// collaborators: the static bearer token used by the catalog API and the
// OAuth token file used by the Drive API. Acquisition and refresh flows
// are external; catsync treats both as opaque inputs.
package auth

import (
	"context"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider serves an externally-managed bearer token, typically
// read from the environment. Used for the catalog API.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider around a fixed token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// GetToken returns the configured token.
// Returns domain.ErrAuthRequired when no token is configured.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}
