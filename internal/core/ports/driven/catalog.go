package driven

import (
	"context"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

// CatalogClient submits files to the document catalog and triggers
// asynchronous content processing on them.
type CatalogClient interface {
	// Upload encodes the local file and submits it to the catalog under the
	// given file type. Returns the catalog's opaque file UID. A 2xx response
	// without a resolvable file UID is an upload failure wrapping
	// domain.ErrNoUploadConfirmation.
	Upload(ctx context.Context, localPath string, fileType domain.CatalogFileType) (string, error)

	// TriggerProcessing asks the catalog to begin content processing for the
	// uploaded file UID and returns the reported process status. A response
	// without a process status for the file is a failure wrapping
	// domain.ErrNoProcessStatus.
	TriggerProcessing(ctx context.Context, fileUID string) (string, error)
}
