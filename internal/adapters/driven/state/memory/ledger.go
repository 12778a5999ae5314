package memory

import (
	"context"
	"sync"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an in-memory implementation of driven.LedgerStore.
type LedgerStore struct {
	mu    sync.RWMutex
	order map[domain.LedgerSet][]string
	index map[domain.LedgerSet]map[string]struct{}
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	s := &LedgerStore{
		order: make(map[domain.LedgerSet][]string),
		index: make(map[domain.LedgerSet]map[string]struct{}),
	}
	for _, set := range domain.LedgerSets {
		s.index[set] = make(map[string]struct{})
	}
	return s
}

// Contains reports whether id is in the named set.
func (s *LedgerStore) Contains(_ context.Context, set domain.LedgerSet, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[set]
	if !ok {
		return false, domain.ErrInvalidInput
	}
	_, found := idx[id]
	return found, nil
}

// Append adds id to the named set, suppressing duplicates.
func (s *LedgerStore) Append(_ context.Context, set domain.LedgerSet, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[set]
	if !ok {
		return domain.ErrInvalidInput
	}
	if _, found := idx[id]; found {
		return nil
	}
	idx[id] = struct{}{}
	s.order[set] = append(s.order[set], id)
	return nil
}

// IDs returns the ids in the named set, in insertion order.
func (s *LedgerStore) IDs(_ context.Context, set domain.LedgerSet) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.index[set]; !ok {
		return nil, domain.ErrInvalidInput
	}
	out := make([]string, len(s.order[set]))
	copy(out, s.order[set])
	return out, nil
}
