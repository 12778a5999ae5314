package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// ledgerFileNames maps each set to its backing file name.
var ledgerFileNames = map[domain.LedgerSet]string{
	domain.LedgerUploaded:    "uploaded_files.json",
	domain.LedgerFailed:      "failure_files.json",
	domain.LedgerUnsupported: "unsupported_type_files.json",
}

// ledgerFile is the on-disk shape of one ledger set.
type ledgerFile struct {
	Data []string `json:"data"`
}

// LedgerStore persists the three outcome sets as JSON files. Each set keeps
// insertion order and suppresses duplicates. Every append rewrites the
// whole file; the sets stay small, hundreds to low thousands of IDs.
type LedgerStore struct {
	mu  sync.RWMutex
	dir string

	// order and index are the in-memory view of each set, loaded lazily.
	order map[domain.LedgerSet][]string
	index map[domain.LedgerSet]map[string]struct{}
}

// NewLedgerStore creates a ledger store rooted at dir, loading any
// existing ledger files.
func NewLedgerStore(dir string) (*LedgerStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	s := &LedgerStore{
		dir:   dir,
		order: make(map[domain.LedgerSet][]string),
		index: make(map[domain.LedgerSet]map[string]struct{}),
	}
	for _, set := range domain.LedgerSets {
		if err := s.load(set); err != nil {
			return nil, err
		}
	}
	return s, nil
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

// Append adds id to the named set and persists the set before returning.
// Appending an id already present is a no-op.
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
	return s.save(set)
}

// IDs returns the ids in the named set, in insertion order.
func (s *LedgerStore) IDs(_ context.Context, set domain.LedgerSet) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, ok := s.order[set]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

// load reads one set's backing file into memory. A missing file starts the
// set empty.
func (s *LedgerStore) load(set domain.LedgerSet) error {
	s.index[set] = make(map[string]struct{})
	s.order[set] = nil

	data, err := os.ReadFile(s.path(set))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var lf ledgerFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return err
	}

	for _, id := range lf.Data {
		if _, found := s.index[set][id]; found {
			continue
		}
		s.index[set][id] = struct{}{}
		s.order[set] = append(s.order[set], id)
	}
	return nil
}

// save rewrites one set's backing file (caller must hold the lock).
func (s *LedgerStore) save(set domain.LedgerSet) error {
	ids := s.order[set]
	if ids == nil {
		// Keep {"data": []} rather than {"data": null} on disk.
		ids = []string{}
	}
	data, err := json.MarshalIndent(ledgerFile{Data: ids}, "", "    ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path(set), data)
}

func (s *LedgerStore) path(set domain.LedgerSet) string {
	return filepath.Join(s.dir, ledgerFileNames[set])
}
