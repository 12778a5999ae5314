// Package memory provides in-memory implementations of the catsync state
// ports, used in tests and anywhere durability is not required.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is an in-memory implementation of driven.CheckpointStore.
type CheckpointStore struct {
	mu  sync.RWMutex
	t   time.Time
	set bool
}

// NewCheckpointStore creates a new in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{}
}

// Read returns the stored checkpoint or domain.ErrNotFound.
func (s *CheckpointStore) Read(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return time.Time{}, domain.ErrNotFound
	}
	return s.t, nil
}

// Write replaces the stored checkpoint.
func (s *CheckpointStore) Write(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = t
	s.set = true
	return nil
}
