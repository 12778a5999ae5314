package domain

import "time"

// Outcome is the result of one per-file pipeline pass.
// Exactly one outcome is produced per remote file per run.
type Outcome string

const (
	// OutcomeUploaded means the file was uploaded and processing was triggered.
	OutcomeUploaded Outcome = "uploaded"

	// OutcomeSkippedAlreadyUploaded means the file was in the uploaded ledger.
	OutcomeSkippedAlreadyUploaded Outcome = "skipped-already-uploaded"

	// OutcomeSkippedFolder means the descriptor named a Drive folder.
	OutcomeSkippedFolder Outcome = "skipped-folder"

	// OutcomeSkippedUnsupported means the MIME type has no catalog file type.
	OutcomeSkippedUnsupported Outcome = "skipped-unsupported-type"

	// OutcomeFailedUpload means the catalog upload failed.
	OutcomeFailedUpload Outcome = "failed-upload"

	// OutcomeFailedProcessing means the processing trigger failed.
	OutcomeFailedProcessing Outcome = "failed-processing"

	// OutcomeFailedFetch means the Drive download or export failed.
	// Fetch failures are logged only; they are not recorded in a ledger.
	OutcomeFailedFetch Outcome = "failed-fetch"
)

// LedgerSet names one of the durable outcome sets.
type LedgerSet string

const (
	// LedgerUploaded holds IDs of files uploaded and processed successfully.
	LedgerUploaded LedgerSet = "uploaded"

	// LedgerFailed holds IDs whose upload or processing failed.
	LedgerFailed LedgerSet = "failed"

	// LedgerUnsupported holds IDs with MIME types the catalog cannot ingest.
	LedgerUnsupported LedgerSet = "unsupported"
)

// LedgerSets lists all ledger sets in display order.
var LedgerSets = []LedgerSet{LedgerUploaded, LedgerFailed, LedgerUnsupported}

// FileResult records the outcome for a single remote file.
type FileResult struct {
	// FileID is the Drive file identifier.
	FileID string

	// Name is the file's display name at listing time.
	Name string

	// Outcome is the pipeline result for this file.
	Outcome Outcome

	// Err carries the failure cause for failed outcomes, nil otherwise.
	Err error
}

// RunReport summarises one sync run.
type RunReport struct {
	// RunID uniquely identifies the run, for log correlation.
	RunID string

	// Checkpoint is the effective lower bound used for the listing.
	Checkpoint time.Time

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Results holds the per-file outcomes in listing order.
	Results []FileResult
}

// Count returns the number of results with the given outcome.
func (r *RunReport) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Failed reports whether any file failed during the run.
func (r *RunReport) Failed() bool {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeFailedUpload, OutcomeFailedProcessing, OutcomeFailedFetch:
			return true
		}
	}
	return false
}
