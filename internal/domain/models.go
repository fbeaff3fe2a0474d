package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Duration wraps time.Duration so that results serialize as a human-readable
// duration string ("1.234s") and parse back to the identical value.
type Duration time.Duration

// MarshalJSON renders the duration in time.Duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Duration(d).String())), nil
}

// UnmarshalJSON parses a duration string produced by MarshalJSON.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// ExtractionResult is the outcome of processing a single document. It is
// created once per request and never mutated after construction.
type ExtractionResult struct {
	DocumentType         DocumentType    `json:"document_type"`
	ExtractedData        map[string]any  `json:"extracted_data"`
	ConfidenceScore      float64         `json:"confidence_score"`
	ClassifierConfidence float64         `json:"classifier_confidence"`
	ConfidenceLevel      ConfidenceLevel `json:"confidence_level"`
	NeedsHumanReview     bool            `json:"needs_human_review"`
	ExtractionMethod     string          `json:"extraction_method"`
	Model                string          `json:"model"`
	ProcessingTime       Duration        `json:"processing_time"`
	UploadedFile         string          `json:"uploaded_file"`
	FileSize             int64           `json:"file_size"`
	FileType             FileType        `json:"file_type"`
	RawText              string          `json:"raw_text,omitempty"`
}

// FailureClass labels why a backend attempt failed. All classes are handled
// identically by the chain; the label exists for diagnostics.
type FailureClass string

const (
	FailureUnreachable FailureClass = "unreachable"
	FailureTimeout     FailureClass = "timeout"
	FailureRejected    FailureClass = "rejected"
	FailureMalformed   FailureClass = "malformed"
	FailureConfig      FailureClass = "config"
)

// BackendAttempt records one failed backend try within a fallback chain run.
// Attempts are ephemeral: logged and surfaced in errors, never persisted.
type BackendAttempt struct {
	Backend string       `json:"backend"`
	Class   FailureClass `json:"class"`
	Err     string       `json:"error"`
	Elapsed Duration     `json:"elapsed"`
}

// BatchResult aggregates the outcomes of a batch scan.
type BatchResult struct {
	BatchID        uuid.UUID          `json:"batch_id"`
	TotalDocuments int                `json:"total_documents"`
	Successful     int                `json:"successful"`
	Failed         int                `json:"failed"`
	Results        []ExtractionResult `json:"results"`
	ProcessedAt    time.Time          `json:"processed_at"`
}

// FileInfo describes a validated upload before processing.
type FileInfo struct {
	Filename        string   `json:"filename"`
	SizeBytes       int64    `json:"size_bytes"`
	FileType        FileType `json:"file_type"`
	IsCameraCapture bool     `json:"is_camera_capture"`
}

// StoredDocument is a persisted workflow row: the uploaded object's location
// plus the extraction result that produced it.
type StoredDocument struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Filename  string          `db:"filename" json:"filename"`
	FileSize  int64           `db:"file_size" json:"file_size"`
	FileType  FileType        `db:"file_type" json:"file_type"`
	ObjectKey string          `db:"object_key" json:"object_key"`
	Result    json.RawMessage `db:"result" json:"result"`
	Status    WorkflowStatus  `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// DecodeResult unmarshals the stored extraction result, if present.
func (d *StoredDocument) DecodeResult() (*ExtractionResult, error) {
	if len(d.Result) == 0 {
		return nil, ErrNotFound
	}
	var res ExtractionResult
	if err := json.Unmarshal(d.Result, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
