// Package file provides file-backed implementations of the catsync state
// ports. The checkpoint is a raw timestamp string in a text file; the
// ledger sets are JSON files of the form {"data": [ids...]}. Writes go
// through a temp file and rename so a crash never leaves a partial file.
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// checkpointLayout is the on-disk timestamp format: ISO-8601 with
// millisecond precision, always UTC.
const checkpointLayout = "2006-01-02T15:04:05.000Z"

// CheckpointStore persists the listing checkpoint as a single text file.
type CheckpointStore struct {
	mu   sync.Mutex
	path string
}

// NewCheckpointStore creates a checkpoint store backed by the given file.
// The parent directory is created if missing.
func NewCheckpointStore(path string) (*CheckpointStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &CheckpointStore{path: path}, nil
}

// Read returns the persisted checkpoint, or domain.ErrNotFound if the
// checkpoint file does not exist yet.
func (s *CheckpointStore) Read(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, domain.ErrNotFound
		}
		return time.Time{}, err
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return time.Time{}, domain.ErrNotFound
	}

	t, err := time.Parse(checkpointLayout, raw)
	if err != nil {
		// Older writers may have stored full RFC 3339.
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, domain.ErrInvalidInput
		}
	}
	return t, nil
}

// Write atomically replaces the checkpoint.
func (s *CheckpointStore) Write(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFileAtomic(s.path, []byte(t.UTC().Format(checkpointLayout)))
}

// writeFileAtomic writes data to a sibling temp file and renames it over
// path. Rename is atomic on POSIX filesystems.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
