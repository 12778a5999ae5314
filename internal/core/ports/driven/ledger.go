package driven

import (
	"context"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

// LedgerStore persists the per-file outcome sets.
// Each set preserves insertion order and suppresses duplicates.
type LedgerStore interface {
	// Contains reports whether id is in the named set.
	Contains(ctx context.Context, set domain.LedgerSet, id string) (bool, error)

	// Append adds id to the named set if absent, persisting the mutation
	// before returning. Appending an existing id is a no-op.
	Append(ctx context.Context, set domain.LedgerSet, id string) error

	// IDs returns the ids in the named set, in insertion order.
	IDs(ctx context.Context, set domain.LedgerSet) ([]string, error)
}
