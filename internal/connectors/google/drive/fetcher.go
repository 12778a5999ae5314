package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"google.golang.org/api/drive/v3"

	"github.com/meridian-labs/catsync-cli/internal/connectors/google"
	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driven"
	"github.com/meridian-labs/catsync-cli/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.FileFetcher = (*Fetcher)(nil)

// Fetcher materialises Drive file content as local transient files.
type Fetcher struct {
	svc     *drive.Service
	limiter *google.RateLimiter
}

// NewFetcher creates a Drive fetcher.
func NewFetcher(svc *drive.Service, limiter *google.RateLimiter) *Fetcher {
	return &Fetcher{svc: svc, limiter: limiter}
}

// Fetch downloads the file's content into dir and returns the local path.
// Editor documents are exported to PDF; everything else is a direct
// download. The content is streamed to a temp file and renamed into place,
// so the local file is either complete or absent, never truncated.
func (f *Fetcher) Fetch(ctx context.Context, file domain.RemoteFile, dir string) (string, error) {
	if file.IsFolder() {
		return "", domain.ErrIsFolder
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var resp *http.Response
	var err error
	if file.IsEditorDocument() {
		logger.Debug("Exporting editor document %q to PDF", file.Name)
		resp, err = f.svc.Files.Export(file.ID, ExportMimePDF).Context(ctx).Download()
	} else {
		resp, err = f.svc.Files.Get(file.ID).Context(ctx).Download()
	}
	if err != nil {
		if gerr := google.WrapError(err); google.IsRateLimited(gerr) {
			f.limiter.RecordRateLimitError(0)
		}
		return "", fmt.Errorf("download %s: %w", file.ID, google.WrapError(err))
	}
	defer resp.Body.Close()

	localPath := filepath.Join(dir, file.LocalName())
	if err := writeStream(localPath, resp.Body); err != nil {
		return "", fmt.Errorf("write %s: %w", localPath, err)
	}
	return localPath, nil
}

// writeStream copies r into a sibling temp file and renames it over path.
func writeStream(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".part-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
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
