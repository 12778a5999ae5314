package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIsFolder indicates the descriptor names a folder.
	// Folders are skipped, never fetched; this is a signal, not a failure.
	ErrIsFolder = errors.New("descriptor is a folder")

	// ErrUnsupportedType indicates a MIME type outside the catalog table.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNoUploadConfirmation indicates the catalog accepted the upload
	// request but returned no file UID. Treated as an upload failure even
	// when the HTTP status was 2xx.
	ErrNoUploadConfirmation = errors.New("catalog returned no upload confirmation")

	// ErrNoProcessStatus indicates the catalog accepted the processing
	// request but returned no process status for the file.
	ErrNoProcessStatus = errors.New("catalog returned no process status")

	// Authentication Errors.

	// ErrAuthRequired indicates a collaborator requires authentication but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrSyncInProgress indicates a sync run is already active.
	ErrSyncInProgress = errors.New("sync in progress")
)
