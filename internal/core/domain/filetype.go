package domain

// CatalogFileType is the catalog's file-type tag attached to an upload.
type CatalogFileType string

// File types accepted by the catalog upload endpoint.
const (
	FileTypePDF      CatalogFileType = "FILE_TYPE_PDF"
	FileTypeText     CatalogFileType = "FILE_TYPE_TEXT"
	FileTypeMarkdown CatalogFileType = "FILE_TYPE_MARKDOWN"
	FileTypePNG      CatalogFileType = "FILE_TYPE_PNG"
	FileTypeJPEG     CatalogFileType = "FILE_TYPE_JPEG"
	FileTypeJPG      CatalogFileType = "FILE_TYPE_JPG"
	FileTypeHTML     CatalogFileType = "FILE_TYPE_HTML"
	FileTypeDOCX     CatalogFileType = "FILE_TYPE_DOCX"
	FileTypeDOC      CatalogFileType = "FILE_TYPE_DOC"
	FileTypePPT      CatalogFileType = "FILE_TYPE_PPT"
	FileTypePPTX     CatalogFileType = "FILE_TYPE_PPTX"
	FileTypeXLS      CatalogFileType = "FILE_TYPE_XLS"
	FileTypeXLSX     CatalogFileType = "FILE_TYPE_XLSX"

	// FileTypeUnsupported marks a MIME type the catalog cannot ingest.
	FileTypeUnsupported CatalogFileType = ""
)

// catalogTypes maps source MIME types to catalog file types.
// MIME types outside this table are unsupported.
var catalogTypes = map[string]CatalogFileType{
	"application/pdf": FileTypePDF,
	"text/plain":      FileTypeText,
	"text/markdown":   FileTypeMarkdown,
	"image/png":       FileTypePNG,
	"image/jpeg":      FileTypeJPEG,
	"image/jpg":       FileTypeJPG,
	"text/html":       FileTypeHTML,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileTypeDOCX,
	"application/msword":            FileTypeDOC,
	"application/vnd.ms-powerpoint": FileTypePPT,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": FileTypePPTX,
	"application/vnd.ms-excel": FileTypeXLS,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FileTypeXLSX,
}

// Classify maps a source MIME type to the catalog file type used on upload.
// Returns FileTypeUnsupported for any MIME type outside the fixed table.
func Classify(mimeType string) CatalogFileType {
	return catalogTypes[mimeType]
}
