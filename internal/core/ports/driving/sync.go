// Package driving defines the driving ports (primary interfaces) for catsync.
// The CLI adapter drives the core through these interfaces.
package driving

import (
	"context"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

// SyncRunner drives one-way synchronisation runs.
type SyncRunner interface {
	// Sync executes one full sync pass: resolve the checkpoint, list
	// modified files, pipeline each file, and record outcomes. A listing
	// failure is retried a bounded number of times before the error is
	// returned. Per-file failures never abort the run.
	Sync(ctx context.Context) (*domain.RunReport, error)

	// Status returns progress for the active run, or an idle status.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncStatus reports sync progress.
type SyncStatus struct {
	// RunID identifies the active run, empty when idle.
	RunID string

	// Running is true while a sync pass is active.
	Running bool

	// FilesProcessed counts files with a recorded outcome so far.
	FilesProcessed int

	// ErrorCount counts failed outcomes so far.
	ErrorCount int
}
