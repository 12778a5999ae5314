// Package services implements the core application services for catsync.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driving"
	"github.com/meridian-labs/catsync-cli/internal/logger"
)

// Ensure SyncRunner implements the interface.
var _ driving.SyncRunner = (*SyncRunner)(nil)

// Config holds orchestrator tuning passed in at construction.
// There is no process-wide configuration state.
type Config struct {
	// WorkDir is where transient downloads are materialised.
	WorkDir string

	// ListAttempts bounds the whole-run retries when the listing fails.
	ListAttempts int

	// ListBackoff is the initial delay between listing attempts; it is
	// doubled after each failure.
	ListBackoff time.Duration

	// AdvanceCheckpoint controls whether a fully recorded run advances the
	// persisted checkpoint to the maximum observed modified time.
	AdvanceCheckpoint bool
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		WorkDir:           ".",
		ListAttempts:      3,
		ListBackoff:       2 * time.Second,
		AdvanceCheckpoint: true,
	}
}

// SyncRunner coordinates one-way Drive-to-catalog synchronisation.
// It owns the per-file pipeline (fetch, classify, upload, trigger, record)
// and the durable bookkeeping of sync progress.
type SyncRunner struct {
	checkpoints driven.CheckpointStore
	ledger      driven.LedgerStore
	lister      driven.FileLister
	fetcher     driven.FileFetcher
	catalog     driven.CatalogClient
	cfg         Config

	// now is swappable for tests.
	now func() time.Time

	// Status tracking
	mu     sync.RWMutex
	active *driving.SyncStatus
}

// NewSyncRunner creates a new sync runner.
func NewSyncRunner(
	checkpoints driven.CheckpointStore,
	ledger driven.LedgerStore,
	lister driven.FileLister,
	fetcher driven.FileFetcher,
	catalog driven.CatalogClient,
	cfg Config,
) *SyncRunner {
	if cfg.ListAttempts < 1 {
		cfg.ListAttempts = 1
	}
	return &SyncRunner{
		checkpoints: checkpoints,
		ledger:      ledger,
		lister:      lister,
		fetcher:     fetcher,
		catalog:     catalog,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Sync executes one full synchronisation pass.
func (r *SyncRunner) Sync(ctx context.Context) (*domain.RunReport, error) {
	runID := uuid.NewString()
	if err := r.begin(runID); err != nil {
		return nil, err
	}
	defer r.end()

	report := &domain.RunReport{
		RunID:     runID,
		StartedAt: r.now(),
	}

	// 1. Resolve the effective checkpoint. A missing checkpoint bounds this
	// run at "now"; the persisted store is left untouched.
	checkpoint, err := r.checkpoints.Read(ctx)
	hadCheckpoint := err == nil
	if errors.Is(err, domain.ErrNotFound) {
		checkpoint = r.now()
		logger.Info("No checkpoint found, bounding run %s at %s", runID, checkpoint.Format(time.RFC3339))
	} else if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	report.Checkpoint = checkpoint

	logger.Info("Starting sync run %s from checkpoint %s", runID, checkpoint.Format(time.RFC3339))

	// 2. List remote files, retrying the whole listing a bounded number of
	// times with doubled backoff before giving up.
	files, err := r.listWithRetry(ctx, checkpoint)
	if err != nil {
		return nil, fmt.Errorf("list modified files: %w", err)
	}

	if len(files) == 0 {
		logger.Info("No files found.")
		report.FinishedAt = r.now()
		return report, nil
	}

	// 3. Pipeline each file in listing order. Per-file failures are logged
	// and recorded; they never abort the run.
	recorded := true
	for _, file := range files {
		result, durable := r.processFile(ctx, file)
		report.Results = append(report.Results, result)
		r.track(result)

		// A fetch failure or a ledger write failure leaves no durable trace,
		// so the run must not advance past this file's modified time.
		if !durable {
			recorded = false
		}

		if err := ctx.Err(); err != nil {
			report.FinishedAt = r.now()
			return report, err
		}
	}

	// 4. Advance the checkpoint to the maximum observed modified time, but
	// only once every outcome is durably recorded. Listings with zero or
	// stale modified times (an unparsable timestamp degrades to zero) must
	// never move a persisted checkpoint backwards.
	if r.cfg.AdvanceCheckpoint && recorded {
		next := maxModifiedTime(files)
		if !next.IsZero() && (!hadCheckpoint || next.After(checkpoint)) {
			if err := r.checkpoints.Write(ctx, next); err != nil {
				report.FinishedAt = r.now()
				return report, fmt.Errorf("advance checkpoint: %w", err)
			}
			logger.Info("Advanced checkpoint to %s", next.Format(time.RFC3339))
		}
	}

	report.FinishedAt = r.now()
	logger.Info("Sync run %s complete: %d uploaded, %d skipped, %d failed",
		runID,
		report.Count(domain.OutcomeUploaded),
		report.Count(domain.OutcomeSkippedAlreadyUploaded)+
			report.Count(domain.OutcomeSkippedFolder)+
			report.Count(domain.OutcomeSkippedUnsupported),
		report.Count(domain.OutcomeFailedUpload)+
			report.Count(domain.OutcomeFailedProcessing)+
			report.Count(domain.OutcomeFailedFetch))
	return report, nil
}

// Status returns progress for the active run, or an idle status.
func (r *SyncRunner) Status(_ context.Context) (*driving.SyncStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active != nil {
		// Return a copy to avoid race conditions.
		s := *r.active
		return &s, nil
	}
	return &driving.SyncStatus{}, nil
}

// processFile runs the pipeline for one descriptor and returns its outcome,
// plus whether that outcome left a durable trace (skips count as durable;
// fetch failures and ledger write failures do not). The transient local file
// never survives the call, and it is only removed after the file's ledger
// outcome has been recorded.
func (r *SyncRunner) processFile(ctx context.Context, file domain.RemoteFile) (domain.FileResult, bool) {
	result := domain.FileResult{FileID: file.ID, Name: file.Name}

	logger.Info("=== Processing file: %s ===", file.Name)

	// a. Already uploaded in an earlier run. A ledger read failure is
	// treated like a fetch failure: logged, no ledger write.
	uploaded, err := r.ledger.Contains(ctx, domain.LedgerUploaded, file.ID)
	if err != nil {
		logger.Error("Ledger check failed for %q (%s): %v", file.Name, file.ID, err)
		result.Outcome = domain.OutcomeFailedFetch
		result.Err = fmt.Errorf("check uploaded ledger: %w", err)
		return result, false
	}
	if uploaded {
		logger.Info("File %q (%s) has already been uploaded.", file.Name, file.ID)
		result.Outcome = domain.OutcomeSkippedAlreadyUploaded
		return result, true
	}

	// b. Folders are never fetched.
	if file.IsFolder() {
		logger.Info("File %q (%s) is a folder and will not be processed.", file.Name, file.ID)
		result.Outcome = domain.OutcomeSkippedFolder
		return result, true
	}

	// c. Classify. Editor documents are exported to PDF by the fetcher, so
	// they classify as PDF regardless of their native MIME type.
	mimeType := file.MIMEType
	if file.IsEditorDocument() {
		mimeType = "application/pdf"
	}
	fileType := domain.Classify(mimeType)
	if fileType == domain.FileTypeUnsupported {
		logger.Info("File %q with type %q is not supported in the catalog.", file.Name, file.MIMEType)
		result.Outcome = domain.OutcomeSkippedUnsupported
		err := r.record(ctx, domain.LedgerUnsupported, file.ID)
		result.Err = err
		return result, err == nil
	}

	// d. Fetch the content to a local transient file. The fetcher removes
	// any partial file on failure; fetch failures are logged only, they
	// leave no ledger trace.
	localPath, err := r.fetcher.Fetch(ctx, file, r.cfg.WorkDir)
	if err != nil {
		logger.Warn("Failed to download file %q (%s): %v", file.Name, file.ID, err)
		result.Outcome = domain.OutcomeFailedFetch
		result.Err = err
		return result, false
	}

	// e. Upload to the catalog.
	fileUID, err := r.catalog.Upload(ctx, localPath, fileType)
	if err != nil {
		logger.Warn("Failed to upload file %q (%s): %v", file.Name, file.ID, err)
		result.Outcome = domain.OutcomeFailedUpload
		result.Err = err
		return result, r.finish(ctx, domain.LedgerFailed, file.ID, localPath)
	}

	// f. Trigger asynchronous processing.
	status, err := r.catalog.TriggerProcessing(ctx, fileUID)
	if err != nil {
		logger.Warn("Failed to process file %q (%s): %v", file.Name, file.ID, err)
		result.Outcome = domain.OutcomeFailedProcessing
		result.Err = err
		return result, r.finish(ctx, domain.LedgerFailed, file.ID, localPath)
	}

	// g. Full success.
	logger.Debug("File %q processing status: %s", file.Name, status)
	result.Outcome = domain.OutcomeUploaded
	return result, r.finish(ctx, domain.LedgerUploaded, file.ID, localPath)
}

// finish records the file's ledger outcome and then removes the transient
// local file; the artifact must not disappear before its outcome is durable.
// Returns whether the record was written.
func (r *SyncRunner) finish(ctx context.Context, set domain.LedgerSet, id, localPath string) bool {
	err := r.record(ctx, set, id)
	removeLocal(localPath)
	return err == nil
}

// record appends id to the named ledger set, logging append failures.
func (r *SyncRunner) record(ctx context.Context, set domain.LedgerSet, id string) error {
	if err := r.ledger.Append(ctx, set, id); err != nil {
		logger.Error("Failed to record %s in %s ledger: %v", id, set, err)
		return fmt.Errorf("append %s ledger: %w", set, err)
	}
	return nil
}

// removeLocal deletes a transient download, logging (not failing) on error.
func removeLocal(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove transient file %s: %v", path, err)
	}
}

// listWithRetry lists modified files, retrying on failure with doubled
// backoff until the attempt budget is exhausted.
func (r *SyncRunner) listWithRetry(ctx context.Context, since time.Time) ([]domain.RemoteFile, error) {
	backoff := r.cfg.ListBackoff
	var lastErr error

	for attempt := 1; attempt <= r.cfg.ListAttempts; attempt++ {
		files, err := r.lister.ListModifiedSince(ctx, since)
		if err == nil {
			return files, nil
		}
		lastErr = err
		logger.Warn("Listing attempt %d/%d failed: %v", attempt, r.cfg.ListAttempts, err)

		if attempt == r.cfg.ListAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.cfg.ListAttempts, lastErr)
}

// begin marks a run active, rejecting concurrent runs.
func (r *SyncRunner) begin(runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil && r.active.Running {
		return domain.ErrSyncInProgress
	}
	r.active = &driving.SyncStatus{RunID: runID, Running: true}
	return nil
}

// end clears the active run.
func (r *SyncRunner) end() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = nil
}

// track folds one result into the active status.
func (r *SyncRunner) track(result domain.FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return
	}
	r.active.FilesProcessed++
	if isFailureOutcome(result.Outcome) {
		r.active.ErrorCount++
	}
}

func isFailureOutcome(o domain.Outcome) bool {
	switch o {
	case domain.OutcomeFailedUpload, domain.OutcomeFailedProcessing, domain.OutcomeFailedFetch:
		return true
	default:
		return false
	}
}

func maxModifiedTime(files []domain.RemoteFile) time.Time {
	var latest time.Time
	for _, f := range files {
		if f.ModifiedTime.After(latest) {
			latest = f.ModifiedTime
		}
	}
	return latest
}
