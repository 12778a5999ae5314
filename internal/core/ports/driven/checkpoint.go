package driven

import (
	"context"
	"time"
)

// CheckpointStore persists the timestamp that bounds the next listing query.
type CheckpointStore interface {
	// Read returns the persisted checkpoint.
	// Returns domain.ErrNotFound if no checkpoint has been written yet.
	Read(ctx context.Context) (time.Time, error)

	// Write durably replaces the checkpoint. The write is atomic: a crash
	// leaves either the old or the new value, never a partial one.
	Write(ctx context.Context, t time.Time) error
}
