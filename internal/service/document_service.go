package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"snapdocs/internal/backend"
	"snapdocs/internal/classifier"
	"snapdocs/internal/config"
	"snapdocs/internal/domain"
	"snapdocs/internal/policy"
	"snapdocs/internal/port"
)

// ProcessInput is the DTO for a single document scan.
type ProcessInput struct {
	Filename string
	Content  []byte
	// ForceType skips classification when set to a known document type.
	ForceType string
	// ForceBackend restricts the chain to a single named backend.
	ForceBackend string
	// IncludeRawText echoes the extracted text back in the result.
	IncludeRawText bool
}

// DocumentService runs the scan pipeline: validate, extract text, classify,
// run the backend chain, post-process, score.
type DocumentService interface {
	Process(ctx context.Context, input ProcessInput) (*domain.ExtractionResult, error)
	ProcessBatch(ctx context.Context, inputs []ProcessInput) (*domain.BatchResult, error)
	ValidateFile(filename string, size int64) (*domain.FileInfo, error)
}

type documentService struct {
	extractor port.TextExtractor
	chain     *backend.Chain
	policy    *policy.Policy
	models    map[string]string // backend key -> configured model id
	limits    config.LimitsConfig
	batch     config.BatchConfig
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	extractor port.TextExtractor,
	chain *backend.Chain,
	pol *policy.Policy,
	cfg *config.Config,
) DocumentService {
	return &documentService{
		extractor: extractor,
		chain:     chain,
		policy:    pol,
		models: map[string]string{
			"ollama": cfg.Ollama.Model,
			"tgi":    cfg.TGI.Model,
			"openai": cfg.OpenAI.Model,
		},
		limits: cfg.Limits,
		batch:  cfg.Batch,
	}
}

// ValidateFile checks the filename and size against the configured limits and
// resolves the file type. Camera captures arrive without an extension
// ("captured_image...") and are treated as JPEG.
func (s *documentService) ValidateFile(filename string, size int64) (*domain.FileInfo, error) {
	if size == 0 {
		return nil, domain.ErrEmptyFile
	}
	if size > s.limits.MaxFileSizeBytes() {
		return nil, domain.ErrFileTooLarge
	}

	info := &domain.FileInfo{Filename: filename, SizeBytes: size}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" && strings.HasPrefix(strings.ToLower(filepath.Base(filename)), "captured_image") {
		info.FileType = domain.FileTypeJPG
		info.IsCameraCapture = true
		return info, nil
	}

	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	info.FileType = fileType
	return info, nil
}

// Process runs one document through the full pipeline. Chain failure does not
// fail the call: the caller gets a degraded, review-flagged result so upload
// workflows always have a well-formed outcome to show.
func (s *documentService) Process(ctx context.Context, input ProcessInput) (*domain.ExtractionResult, error) {
	started := time.Now()

	info, err := s.ValidateFile(input.Filename, int64(len(input.Content)))
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.Extract(ctx, input.Content, info.FileType)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", input.Filename, err)
	}

	docType, classifierConfidence := s.classify(text, input.ForceType)

	chain := s.chain
	if input.ForceBackend != "" {
		chain, err = s.chain.WithOnly(input.ForceBackend)
		if err != nil {
			return nil, err
		}
	}

	result := &domain.ExtractionResult{
		DocumentType:         docType,
		ClassifierConfidence: classifierConfidence,
		UploadedFile:         input.Filename,
		FileSize:             info.SizeBytes,
		FileType:             info.FileType,
	}
	if input.IncludeRawText {
		result.RawText = text
	}

	extraction, err := chain.Extract(ctx, text, docType)
	if err != nil {
		var unavailable *backend.ExtractionUnavailableError
		if !errors.As(err, &unavailable) {
			return nil, err
		}
		log.Printf("documentService.Process: %s: %v", input.Filename, err)
		result.ExtractedData = map[string]any{"error": unavailable.Error()}
		result.ConfidenceScore = 0
		result.ConfidenceLevel = domain.ConfidenceLow
		result.NeedsHumanReview = true
		result.ExtractionMethod = "none"
		result.ProcessingTime = domain.Duration(time.Since(started))
		return result, nil
	}

	result.ExtractedData = postProcessFields(extraction.Fields)
	result.ExtractionMethod = extraction.Backend
	result.Model = backend.ModelDisplayName(extraction.Backend, s.models[extraction.Backend])
	result.ConfidenceScore = policy.OverallConfidence(classifierConfidence, result.ExtractedData)
	result.ConfidenceLevel, result.NeedsHumanReview = s.policy.Evaluate(result.ConfidenceScore)
	result.ProcessingTime = domain.Duration(time.Since(started))

	log.Printf("documentService.Process: %s type=%s backend=%s confidence=%.2f (%s) in %s",
		input.Filename, result.DocumentType, result.ExtractionMethod,
		result.ConfidenceScore, result.ConfidenceLevel, time.Since(started).Round(time.Millisecond))
	return result, nil
}

// ProcessBatch scans independent documents concurrently under the configured
// worker limit. Per-document pipeline failures become degraded results; the
// batch itself only fails when empty or over the size limit. Results keep the
// input order.
func (s *documentService) ProcessBatch(ctx context.Context, inputs []ProcessInput) (*domain.BatchResult, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(inputs) > s.limits.MaxBatchFiles {
		return nil, domain.ErrBatchTooLarge
	}

	results := make([]domain.ExtractionResult, len(inputs))
	sem := make(chan struct{}, s.batch.Concurrency)
	var wg sync.WaitGroup

	for i := range inputs {
		i := i
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			res, err := s.Process(ctx, inputs[i])
			if err != nil {
				results[i] = failedResult(inputs[i].Filename, err)
				return
			}
			results[i] = *res
		}()
	}
	wg.Wait()

	batch := &domain.BatchResult{
		BatchID:        uuid.New(),
		TotalDocuments: len(inputs),
		Results:        results,
		ProcessedAt:    time.Now().UTC(),
	}
	for i := range results {
		if results[i].ExtractionMethod != "" && results[i].ExtractionMethod != "none" {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}
	log.Printf("documentService.ProcessBatch: %s processed %d documents (%d ok, %d failed)",
		batch.BatchID, batch.TotalDocuments, batch.Successful, batch.Failed)
	return batch, nil
}

func (s *documentService) classify(text, forced string) (domain.DocumentType, float64) {
	if forced != "" {
		if docType := domain.ParseDocumentType(forced); docType != domain.DocumentTypeUnknown {
			return docType, 1.0
		}
	}
	return classifier.Classify(text)
}

// failedResult builds the degraded result for a document whose pipeline
// failed before the chain could even run (bad file, OCR error).
func failedResult(filename string, err error) domain.ExtractionResult {
	return domain.ExtractionResult{
		DocumentType:     domain.DocumentTypeUnknown,
		ExtractedData:    map[string]any{"error": err.Error()},
		ConfidenceLevel:  domain.ConfidenceLow,
		NeedsHumanReview: true,
		ExtractionMethod: "none",
		UploadedFile:     filename,
	}
}

// itemListFields are extraction fields that models tend to return as JSON
// arrays of line items. They get rendered as readable bullet lines, with the
// original value preserved under "<field>_raw".
var itemListFields = []string{"items_purchased", "line_items", "items", "products"}

// postProcessFields rewrites item-list fields into human-readable form.
// Everything else passes through untouched.
func postProcessFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, field := range itemListFields {
		v, ok := out[field]
		if !ok {
			continue
		}
		if formatted, ok := formatItemList(v); ok {
			out[field+"_raw"] = v
			out[field] = formatted
		}
	}
	return out
}

// formatItemList renders a list of item objects as bullet lines. Strings that
// themselves contain a JSON array are decoded first.
func formatItemList(v any) (string, bool) {
	items, ok := v.([]any)
	if !ok {
		s, isStr := v.(string)
		if !isStr || !strings.HasPrefix(strings.TrimSpace(s), "[") {
			return "", false
		}
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return "", false
		}
	}
	if len(items) == 0 {
		return "", false
	}

	var b strings.Builder
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(describeItem(obj))
	}
	return b.String(), true
}

func describeItem(obj map[string]any) string {
	desc := firstString(obj, "description", "name", "item", "product")
	if desc == "" {
		desc = "item"
	}
	var b strings.Builder
	b.WriteString(desc)
	if qty := firstValue(obj, "quantity", "qty"); qty != "" {
		fmt.Fprintf(&b, " (Qty: %s)", qty)
	}
	if price := firstValue(obj, "unit_price", "price"); price != "" {
		fmt.Fprintf(&b, " @ %s", price)
	}
	if total := firstValue(obj, "total", "amount", "line_total"); total != "" {
		fmt.Fprintf(&b, " = %s", total)
	}
	return b.String()
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstValue(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch val := obj[k].(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			if val == float64(int64(val)) {
				return fmt.Sprintf("%d", int64(val))
			}
			return fmt.Sprintf("%.2f", val)
		}
	}
	return ""
}
