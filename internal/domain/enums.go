package domain

import "strings"

// DocumentType classifies what kind of document a scan produced.
type DocumentType string

const (
	DocumentTypeInvoice  DocumentType = "invoice"
	DocumentTypeContract DocumentType = "contract"
	DocumentTypeForm     DocumentType = "form"
	DocumentTypeReceipt  DocumentType = "receipt"
	DocumentTypeUnknown  DocumentType = "unknown"
)

// AllDocumentTypes lists every classifiable type, unknown excluded.
var AllDocumentTypes = []DocumentType{
	DocumentTypeInvoice,
	DocumentTypeContract,
	DocumentTypeForm,
	DocumentTypeReceipt,
}

// ParseDocumentType normalizes a caller-supplied type label. Empty or
// unrecognized labels map to unknown.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(s))) {
	case DocumentTypeInvoice:
		return DocumentTypeInvoice
	case DocumentTypeContract:
		return DocumentTypeContract
	case DocumentTypeForm:
		return DocumentTypeForm
	case DocumentTypeReceipt:
		return DocumentTypeReceipt
	default:
		return DocumentTypeUnknown
	}
}

// ConfidenceLevel buckets a confidence score via fixed thresholds.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// WorkflowStatus tracks the lifecycle of a stored document workflow.
type WorkflowStatus string

const (
	WorkflowProcessing WorkflowStatus = "processing"
	WorkflowCompleted  WorkflowStatus = "completed"
	WorkflowFailed     WorkflowStatus = "failed"
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypeTXT  FileType = "txt"
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"txt":  FileTypeTXT,
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// FileTypeContentTypes maps FileType to its MIME content type.
var FileTypeContentTypes = map[FileType]string{
	FileTypeTXT: "text/plain",
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// SupportedExtensionList returns the allowed extensions with leading dots,
// in a stable order for API responses.
func SupportedExtensionList() []string {
	return []string{".txt", ".pdf", ".png", ".jpg", ".jpeg"}
}

// ExportFormat selects how a stored result is rendered for download.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportXML  ExportFormat = "xml"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat validates a caller-supplied format. Empty defaults to JSON.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportJSON:
		return ExportJSON, nil
	case ExportCSV:
		return ExportCSV, nil
	case ExportXML:
		return ExportXML, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", ErrUnsupportedExportFormat
	}
}
