package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/catsync-cli/internal/adapters/driven/state/memory"
	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

// --- Mock implementations for sync testing ---

// mockLister implements driven.FileLister.
type mockLister struct {
	files []domain.RemoteFile
	// errs is consumed one per call; a nil entry (or exhaustion) succeeds.
	errs  []error
	calls int
	since []time.Time
}

func (m *mockLister) ListModifiedSince(_ context.Context, t time.Time) ([]domain.RemoteFile, error) {
	m.calls++
	m.since = append(m.since, t)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return m.files, nil
}

// mockFetcher implements driven.FileFetcher. It writes a real file into
// dir so transient-cleanup assertions act on the filesystem.
type mockFetcher struct {
	failWith map[string]error
	fetched  []string
	paths    []string
}

func (m *mockFetcher) Fetch(_ context.Context, file domain.RemoteFile, dir string) (string, error) {
	if file.IsFolder() {
		return "", domain.ErrIsFolder
	}
	m.fetched = append(m.fetched, file.ID)
	if err := m.failWith[file.ID]; err != nil {
		return "", err
	}
	path := filepath.Join(dir, file.LocalName())
	if err := os.WriteFile(path, []byte("content of "+file.ID), 0o600); err != nil {
		return "", err
	}
	m.paths = append(m.paths, path)
	return path, nil
}

// mockCatalog implements driven.CatalogClient.
type mockCatalog struct {
	uploadErr  error
	triggerErr error
	uploads    []string
	types      []domain.CatalogFileType
	triggers   []string
}

func (m *mockCatalog) Upload(_ context.Context, localPath string, fileType domain.CatalogFileType) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, localPath)
	m.types = append(m.types, fileType)
	return "uid-" + filepath.Base(localPath), nil
}

func (m *mockCatalog) TriggerProcessing(_ context.Context, fileUID string) (string, error) {
	if m.triggerErr != nil {
		return "", m.triggerErr
	}
	m.triggers = append(m.triggers, fileUID)
	return "done", nil
}

// --- Fixtures ---

var (
	pdfFile = domain.RemoteFile{
		ID:           "f1",
		Name:         "report.pdf",
		MIMEType:     "application/pdf",
		ModifiedTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	zipFile = domain.RemoteFile{
		ID:           "f2",
		Name:         "archive.zip",
		MIMEType:     "application/zip",
		ModifiedTime: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
	}
)

type fixture struct {
	runner      *SyncRunner
	checkpoints *memory.CheckpointStore
	ledger      *memory.LedgerStore
	lister      *mockLister
	fetcher     *mockFetcher
	catalog     *mockCatalog
	workDir     string
}

func newFixture(t *testing.T, files []domain.RemoteFile, cfg Config) *fixture {
	t.Helper()

	f := &fixture{
		checkpoints: memory.NewCheckpointStore(),
		ledger:      memory.NewLedgerStore(),
		lister:      &mockLister{files: files},
		fetcher:     &mockFetcher{failWith: map[string]error{}},
		catalog:     &mockCatalog{},
		workDir:     t.TempDir(),
	}
	cfg.WorkDir = f.workDir
	if cfg.ListAttempts == 0 {
		cfg.ListAttempts = 1
	}
	f.runner = NewSyncRunner(f.checkpoints, f.ledger, f.lister, f.fetcher, f.catalog, cfg)
	return f
}

func (f *fixture) ledgerIDs(t *testing.T, set domain.LedgerSet) []string {
	t.Helper()
	ids, err := f.ledger.IDs(context.Background(), set)
	require.NoError(t, err)
	return ids
}

// assertWorkDirEmpty verifies no transient file survived the run.
func (f *fixture) assertWorkDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.workDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "transient files left in work dir")
}

// --- Tests ---

func TestSyncRunner_EndToEnd(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile, zipFile}, Config{AdvanceCheckpoint: false})

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	assert.Equal(t, domain.OutcomeUploaded, report.Results[0].Outcome)
	assert.Equal(t, domain.OutcomeSkippedUnsupported, report.Results[1].Outcome)

	// f1 was fetched, uploaded as PDF, and its upload UID was processed.
	assert.Equal(t, []string{"f1"}, f.fetcher.fetched)
	require.Len(t, f.catalog.uploads, 1)
	assert.Equal(t, "report.pdf", filepath.Base(f.catalog.uploads[0]))
	assert.Equal(t, []domain.CatalogFileType{domain.FileTypePDF}, f.catalog.types)
	assert.Equal(t, []string{"uid-report.pdf"}, f.catalog.triggers)

	assert.Equal(t, []string{"f1"}, f.ledgerIDs(t, domain.LedgerUploaded))
	assert.Equal(t, []string{"f2"}, f.ledgerIDs(t, domain.LedgerUnsupported))
	assert.Empty(t, f.ledgerIDs(t, domain.LedgerFailed))

	// With checkpoint advance disabled, the store stays untouched.
	_, err = f.checkpoints.Read(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.assertWorkDirEmpty(t)
}

func TestSyncRunner_IdempotentRerun(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile, zipFile}, Config{})
	ctx := context.Background()

	require.NoError(t, f.ledger.Append(ctx, domain.LedgerUploaded, "f1"))
	require.NoError(t, f.ledger.Append(ctx, domain.LedgerUploaded, "f2"))
	require.NoError(t, f.ledger.Append(ctx, domain.LedgerUnsupported, "f2"))

	report, err := f.runner.Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count(domain.OutcomeSkippedAlreadyUploaded))
	assert.Empty(t, f.fetcher.fetched)
	assert.Empty(t, f.catalog.uploads)
	assert.Empty(t, f.catalog.triggers)

	// Ledgers are unchanged.
	assert.Equal(t, []string{"f1", "f2"}, f.ledgerIDs(t, domain.LedgerUploaded))
	assert.Equal(t, []string{"f2"}, f.ledgerIDs(t, domain.LedgerUnsupported))
	assert.Empty(t, f.ledgerIDs(t, domain.LedgerFailed))
}

func TestSyncRunner_FolderShortCircuit(t *testing.T) {
	folder := domain.RemoteFile{ID: "d1", Name: "stuff", MIMEType: domain.MimeTypeFolder}
	f := newFixture(t, []domain.RemoteFile{folder}, Config{})

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.OutcomeSkippedFolder, report.Results[0].Outcome)
	assert.Empty(t, f.fetcher.fetched)
	assert.Empty(t, f.catalog.uploads)
	assert.Empty(t, f.catalog.triggers)
	assert.Empty(t, f.ledgerIDs(t, domain.LedgerUploaded))
}

func TestSyncRunner_UploadFailure(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile}, Config{})
	f.catalog.uploadErr = domain.ErrNoUploadConfirmation

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.OutcomeFailedUpload, report.Results[0].Outcome)
	assert.ErrorIs(t, report.Results[0].Err, domain.ErrNoUploadConfirmation)

	// No processing was requested and the failure was recorded.
	assert.Empty(t, f.catalog.triggers)
	assert.Equal(t, []string{"f1"}, f.ledgerIDs(t, domain.LedgerFailed))
	assert.Empty(t, f.ledgerIDs(t, domain.LedgerUploaded))

	f.assertWorkDirEmpty(t)
}

func TestSyncRunner_ProcessingFailure(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile}, Config{})
	f.catalog.triggerErr = domain.ErrNoProcessStatus

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.OutcomeFailedProcessing, report.Results[0].Outcome)
	assert.Equal(t, []string{"f1"}, f.ledgerIDs(t, domain.LedgerFailed))
	assert.Empty(t, f.ledgerIDs(t, domain.LedgerUploaded))

	f.assertWorkDirEmpty(t)
}

func TestSyncRunner_FetchFailureLeavesNoLedgerTrace(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile}, Config{AdvanceCheckpoint: true})
	f.fetcher.failWith["f1"] = errors.New("connection reset")

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.OutcomeFailedFetch, report.Results[0].Outcome)

	assert.Empty(t, f.ledgerIDs(t, domain.LedgerUploaded))
	assert.Empty(t, f.ledgerIDs(t, domain.LedgerFailed))
	assert.Empty(t, f.ledgerIDs(t, domain.LedgerUnsupported))

	// An unrecorded file must hold the checkpoint back.
	_, err = f.checkpoints.Read(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.assertWorkDirEmpty(t)
}

func TestSyncRunner_AdvancesCheckpointToMaxModifiedTime(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile, zipFile}, Config{AdvanceCheckpoint: true})
	ctx := context.Background()

	_, err := f.runner.Sync(ctx)
	require.NoError(t, err)

	checkpoint, err := f.checkpoints.Read(ctx)
	require.NoError(t, err)
	assert.True(t, checkpoint.Equal(zipFile.ModifiedTime),
		"checkpoint %s should equal max modified time %s", checkpoint, zipFile.ModifiedTime)
}

func TestSyncRunner_CheckpointNeverRegresses(t *testing.T) {
	// A zero ModifiedTime (Drive reported an unparsable timestamp) and a
	// file older than the checkpoint must both leave the checkpoint alone.
	zeroTime := domain.RemoteFile{ID: "z1", Name: "stale.pdf", MIMEType: "application/pdf"}
	older := domain.RemoteFile{
		ID:           "z2",
		Name:         "old.pdf",
		MIMEType:     "application/pdf",
		ModifiedTime: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	f := newFixture(t, []domain.RemoteFile{zeroTime, older}, Config{AdvanceCheckpoint: true})
	ctx := context.Background()

	checkpoint := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.checkpoints.Write(ctx, checkpoint))

	report, err := f.runner.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(domain.OutcomeUploaded))

	got, err := f.checkpoints.Read(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(checkpoint), "checkpoint moved from %s to %s", checkpoint, got)
}

func TestSyncRunner_EmptyListing(t *testing.T) {
	f := newFixture(t, nil, Config{AdvanceCheckpoint: true})

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Results)

	// Nothing listed, nothing advanced.
	_, err = f.checkpoints.Read(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSyncRunner_ExistingCheckpointBoundsListing(t *testing.T) {
	f := newFixture(t, nil, Config{})
	ctx := context.Background()

	checkpoint := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.checkpoints.Write(ctx, checkpoint))

	_, err := f.runner.Sync(ctx)
	require.NoError(t, err)

	require.Len(t, f.lister.since, 1)
	assert.True(t, f.lister.since[0].Equal(checkpoint))
}

func TestSyncRunner_EditorDocumentUploadsAsPDF(t *testing.T) {
	doc := domain.RemoteFile{
		ID:           "g1",
		Name:         "meeting notes",
		MIMEType:     "application/vnd.google-apps.document",
		ModifiedTime: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
	}
	f := newFixture(t, []domain.RemoteFile{doc}, Config{})

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.OutcomeUploaded, report.Results[0].Outcome)
	require.Len(t, f.catalog.uploads, 1)
	assert.Equal(t, "meeting notes.pdf", filepath.Base(f.catalog.uploads[0]))
	assert.Equal(t, []domain.CatalogFileType{domain.FileTypePDF}, f.catalog.types)

	f.assertWorkDirEmpty(t)
}

func TestSyncRunner_ListingRetrySucceeds(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile}, Config{
		ListAttempts: 3,
		ListBackoff:  time.Millisecond,
	})
	f.lister.errs = []error{errors.New("transient"), errors.New("still down")}

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, f.lister.calls)
	assert.Equal(t, 1, report.Count(domain.OutcomeUploaded))
}

func TestSyncRunner_ListingRetryGivesUp(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile}, Config{
		ListAttempts: 2,
		ListBackoff:  time.Millisecond,
	})
	listErr := errors.New("auth failure")
	f.lister.errs = []error{listErr, listErr}

	_, err := f.runner.Sync(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, listErr)
	assert.Equal(t, 2, f.lister.calls)
}

func TestSyncRunner_PerFileFailuresDoNotAbortRun(t *testing.T) {
	f := newFixture(t, []domain.RemoteFile{pdfFile, zipFile, {
		ID:           "f3",
		Name:         "notes.txt",
		MIMEType:     "text/plain",
		ModifiedTime: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	}}, Config{})
	f.fetcher.failWith["f1"] = errors.New("boom")

	report, err := f.runner.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	assert.Equal(t, domain.OutcomeFailedFetch, report.Results[0].Outcome)
	assert.Equal(t, domain.OutcomeSkippedUnsupported, report.Results[1].Outcome)
	assert.Equal(t, domain.OutcomeUploaded, report.Results[2].Outcome)
	assert.Equal(t, []string{"f3"}, f.ledgerIDs(t, domain.LedgerUploaded))
}

func TestSyncRunner_StatusIdleWhenNotRunning(t *testing.T) {
	f := newFixture(t, nil, Config{})

	status, err := f.runner.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Zero(t, status.FilesProcessed)
}
