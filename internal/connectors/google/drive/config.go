// Package drive implements the Google Drive listing and fetching surface
// of catsync on top of the Drive v3 API.
package drive

// ExportMimePDF is the export format for Google-editor documents.
// Editor documents have no fixed binary form; they are transcoded to PDF
// before upload.
const ExportMimePDF = "application/pdf"

// Config holds Drive connector configuration.
type Config struct {
	// PageSize is the page size for listing requests.
	PageSize int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{PageSize: 100}
}
