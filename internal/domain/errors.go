package domain

import "errors"

var (
	ErrNotFound                = errors.New("resource not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile               = errors.New("uploaded file is empty")
	ErrEmptyBatch              = errors.New("batch contains no files")
	ErrBatchTooLarge           = errors.New("batch exceeds maximum file count")
	ErrConfiguration           = errors.New("configuration error")
	ErrBackendUnavailable      = errors.New("extraction backend unavailable")
	ErrExtractionUnavailable   = errors.New("all extraction backends failed")
	ErrMalformedOutput         = errors.New("backend returned malformed output")
	ErrUploadFailed            = errors.New("file upload to storage failed")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrUnknownBackend          = errors.New("unknown extraction backend")
)
