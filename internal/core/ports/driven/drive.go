package driven

import (
	"context"
	"time"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

// FileLister queries the remote storage for files modified since a checkpoint.
type FileLister interface {
	// ListModifiedSince returns descriptors for files whose modified time is
	// at or after t, in listing order. Implementations follow the
	// continuation token until the listing is exhausted.
	ListModifiedSince(ctx context.Context, t time.Time) ([]domain.RemoteFile, error)
}

// FileFetcher materialises a remote file's content as a local transient file.
type FileFetcher interface {
	// Fetch downloads the file's content into dir and returns the local path.
	// Editor documents are exported to PDF and gain a .pdf suffix.
	// Returns domain.ErrIsFolder for folder descriptors without touching
	// the network. On failure the local file is removed; the fetched file
	// is either complete or absent, never truncated.
	Fetch(ctx context.Context, file domain.RemoteFile, dir string) (string, error)
}
