package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"snapdocs/internal/config"
	"snapdocs/internal/domain"
	"snapdocs/internal/export"
	"snapdocs/internal/port"
)

// WorkflowInput is the DTO for the full document workflow: scan, store,
// notify.
type WorkflowInput struct {
	ProcessInput
	WebhookURL string
}

// WorkflowOutcome is the result of one workflow run.
type WorkflowOutcome struct {
	Document  domain.StoredDocument    `json:"document"`
	Result    *domain.ExtractionResult `json:"result"`
	AccessURL string                   `json:"access_url,omitempty"`
	Forwarded bool                     `json:"forwarded"`
}

// BatchWorkflowOutcome aggregates workflow runs over a batch upload.
type BatchWorkflowOutcome struct {
	BatchID        uuid.UUID         `json:"batch_id"`
	TotalDocuments int               `json:"total_documents"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	Outcomes       []WorkflowOutcome `json:"outcomes"`
	ProcessedAt    time.Time         `json:"processed_at"`
}

// StoredDocumentView is a stored document joined with its decoded result and
// a fresh presigned access URL.
type StoredDocumentView struct {
	Document  domain.StoredDocument    `json:"document"`
	Result    *domain.ExtractionResult `json:"result,omitempty"`
	AccessURL string                   `json:"access_url,omitempty"`
}

// WorkflowService runs the persistent document workflow and serves the
// stored documents it produces.
type WorkflowService interface {
	Run(ctx context.Context, input WorkflowInput) (*WorkflowOutcome, error)
	RunBatch(ctx context.Context, inputs []WorkflowInput) (*BatchWorkflowOutcome, error)
	Get(ctx context.Context, id uuid.UUID) (*StoredDocumentView, error)
	List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Status(ctx context.Context, id uuid.UUID) (domain.WorkflowStatus, error)
}

type workflowService struct {
	docService    DocumentService
	repo          port.DocumentRepository
	storage       port.ObjectStorage
	email         port.EmailSender
	webhookClient *http.Client
	reviewerEmail string
	presignExpiry int64
	concurrency   int
	maxBatchFiles int
}

// NewWorkflowService creates a new WorkflowService implementation.
func NewWorkflowService(
	docService DocumentService,
	repo port.DocumentRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	cfg *config.Config,
) WorkflowService {
	timeout := time.Duration(cfg.Workflow.WebhookTimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &workflowService{
		docService:    docService,
		repo:          repo,
		storage:       storage,
		email:         email,
		webhookClient: &http.Client{Timeout: timeout},
		reviewerEmail: cfg.Workflow.ReviewerEmail,
		presignExpiry: cfg.S3.PresignExpiry,
		concurrency:   cfg.Batch.Concurrency,
		maxBatchFiles: cfg.Limits.MaxBatchFiles,
	}
}

// Run persists the upload, scans it, stores the result, and fires the
// configured notifications. Scan degradation (all backends down) still
// completes the workflow; only validation and infrastructure errors fail it.
func (s *workflowService) Run(ctx context.Context, input WorkflowInput) (*WorkflowOutcome, error) {
	info, err := s.docService.ValidateFile(input.Filename, int64(len(input.Content)))
	if err != nil {
		return nil, err
	}

	doc := domain.StoredDocument{
		ID:        uuid.New(),
		Filename:  input.Filename,
		FileSize:  info.SizeBytes,
		FileType:  info.FileType,
		Status:    domain.WorkflowProcessing,
	}
	doc.ObjectKey = fmt.Sprintf("documents/%s/%s", doc.ID, export.SanitizeFilename(input.Filename))

	if err := s.repo.Create(ctx, &doc); err != nil {
		return nil, fmt.Errorf("creating document row: %w", err)
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Key:         doc.ObjectKey,
		Body:        bytes.NewReader(input.Content),
		ContentType: domain.FileTypeContentTypes[info.FileType],
		Size:        info.SizeBytes,
	})
	if err != nil {
		s.markFailed(ctx, doc.ID)
		return nil, fmt.Errorf("%v: %w", err, domain.ErrUploadFailed)
	}

	result, err := s.docService.Process(ctx, input.ProcessInput)
	if err != nil {
		s.markFailed(ctx, doc.ID)
		return nil, err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		s.markFailed(ctx, doc.ID)
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	if err := s.repo.UpdateResult(ctx, doc.ID, resultJSON, domain.WorkflowCompleted); err != nil {
		return nil, fmt.Errorf("storing result: %w", err)
	}
	doc.Result = resultJSON
	doc.Status = domain.WorkflowCompleted

	outcome := &WorkflowOutcome{Document: doc, Result: result}

	url, err := s.storage.GetPresignedURL(ctx, doc.ObjectKey, s.presignExpiry)
	if err != nil {
		log.Printf("workflowService.Run: presign for %s failed: %v", doc.ID, err)
	} else {
		outcome.AccessURL = url
	}

	if input.WebhookURL != "" {
		outcome.Forwarded = s.forwardResult(ctx, input.WebhookURL, doc.ID, resultJSON)
	}
	if result.NeedsHumanReview {
		s.notifyReviewer(ctx, &doc, result)
	}

	return outcome, nil
}

// RunBatch runs independent workflows concurrently under the shared worker
// limit. A failed document yields a failed outcome, never a failed batch.
func (s *workflowService) RunBatch(ctx context.Context, inputs []WorkflowInput) (*BatchWorkflowOutcome, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(inputs) > s.maxBatchFiles {
		return nil, domain.ErrBatchTooLarge
	}

	outcomes := make([]WorkflowOutcome, len(inputs))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i := range inputs {
		i := i
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			outcome, err := s.Run(ctx, inputs[i])
			if err != nil {
				log.Printf("workflowService.RunBatch: %s failed: %v", inputs[i].Filename, err)
				failed := failedResult(inputs[i].Filename, err)
				outcomes[i] = WorkflowOutcome{
					Document: domain.StoredDocument{
						Filename: inputs[i].Filename,
						Status:   domain.WorkflowFailed,
					},
					Result: &failed,
				}
				return
			}
			outcomes[i] = *outcome
		}()
	}
	wg.Wait()

	batch := &BatchWorkflowOutcome{
		BatchID:        uuid.New(),
		TotalDocuments: len(inputs),
		Outcomes:       outcomes,
		ProcessedAt:    time.Now().UTC(),
	}
	for i := range outcomes {
		if outcomes[i].Document.Status == domain.WorkflowCompleted {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}
	return batch, nil
}

func (s *workflowService) Get(ctx context.Context, id uuid.UUID) (*StoredDocumentView, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &StoredDocumentView{Document: *doc}
	if len(doc.Result) > 0 {
		result, err := doc.DecodeResult()
		if err != nil {
			log.Printf("workflowService.Get: decoding result for %s: %v", id, err)
		} else {
			view.Result = result
		}
	}

	url, err := s.storage.GetPresignedURL(ctx, doc.ObjectKey, s.presignExpiry)
	if err != nil {
		log.Printf("workflowService.Get: presign for %s failed: %v", id, err)
	} else {
		view.AccessURL = url
	}
	return view, nil
}

func (s *workflowService) List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// Delete removes the stored row and its object. A missing object is logged
// and ignored so a half-deleted document can still be cleaned up.
func (s *workflowService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, doc.ObjectKey); err != nil {
		log.Printf("workflowService.Delete: deleting object %s: %v", doc.ObjectKey, err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *workflowService) Status(ctx context.Context, id uuid.UUID) (domain.WorkflowStatus, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.Status, nil
}

func (s *workflowService) markFailed(ctx context.Context, id uuid.UUID) {
	if err := s.repo.UpdateStatus(ctx, id, domain.WorkflowFailed); err != nil {
		log.Printf("workflowService: marking %s failed: %v", id, err)
	}
}

// forwardResult POSTs the result JSON to the caller-supplied webhook.
// Failures are logged, never propagated: the scan already succeeded.
func (s *workflowService) forwardResult(ctx context.Context, url string, id uuid.UUID, resultJSON []byte) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(resultJSON))
	if err != nil {
		log.Printf("workflowService.forwardResult: building request for %s: %v", id, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Document-ID", id.String())

	resp, err := s.webhookClient.Do(req)
	if err != nil {
		log.Printf("workflowService.forwardResult: webhook for %s: %v", id, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("workflowService.forwardResult: webhook for %s returned %d", id, resp.StatusCode)
		return false
	}
	return true
}

func (s *workflowService) notifyReviewer(ctx context.Context, doc *domain.StoredDocument, result *domain.ExtractionResult) {
	if s.reviewerEmail == "" || s.email == nil {
		return
	}
	err := s.email.SendReviewNotification(ctx, s.reviewerEmail, port.ReviewNotification{
		DocumentID:      doc.ID.String(),
		Filename:        doc.Filename,
		DocumentType:    string(result.DocumentType),
		ConfidenceLevel: string(result.ConfidenceLevel),
		ConfidenceScore: result.ConfidenceScore,
	})
	if err != nil {
		log.Printf("workflowService.notifyReviewer: %s: %v", doc.ID, err)
	}
}
