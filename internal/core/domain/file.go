package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Drive MIME types with special handling in the pipeline.
const (
	// MimeTypeFolder marks a Drive folder. Folders are never fetched.
	MimeTypeFolder = "application/vnd.google-apps.folder"

	// MimeTypeEditorPrefix marks Google-editor documents (Docs, Sheets,
	// Slides). They have no fixed binary form and are exported to PDF
	// before upload.
	MimeTypeEditorPrefix = "application/vnd.google-apps."
)

// RemoteFile describes a file from the Drive listing.
// It is read-only from catsync's perspective.
type RemoteFile struct {
	// ID is the opaque Drive file identifier.
	ID string

	// Name is the display name of the file.
	Name string

	// MIMEType is the file's MIME type as reported by Drive.
	MIMEType string

	// ModifiedTime is when the file was last modified.
	ModifiedTime time.Time
}

// IsFolder reports whether the descriptor names a Drive folder.
func (f RemoteFile) IsFolder() bool {
	return f.MIMEType == MimeTypeFolder
}

// IsEditorDocument reports whether the file is a Google-editor document
// that must be exported rather than downloaded.
func (f RemoteFile) IsEditorDocument() bool {
	return f.MIMEType != MimeTypeFolder &&
		strings.HasPrefix(f.MIMEType, MimeTypeEditorPrefix)
}

// LocalName returns the file name the fetched content is written under.
// Editor documents gain a .pdf suffix because they are exported to PDF.
// Remote names are untrusted and may contain path separators; only the
// base name is kept so the download cannot escape the work directory.
// Names that reduce to no usable base fall back to the file ID.
func (f RemoteFile) LocalName() string {
	name := filepath.Base(f.Name)
	switch name {
	case "", ".", "..", string(filepath.Separator):
		name = f.ID
	}
	if f.IsEditorDocument() {
		return name + ".pdf"
	}
	return name
}
