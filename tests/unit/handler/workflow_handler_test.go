package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"snapdocs/internal/domain"
	"snapdocs/internal/handler"
	"snapdocs/internal/service"
	"snapdocs/mocks"
)

func newWorkflowRouter(svc service.WorkflowService) *gin.Engine {
	h := handler.NewWorkflowHandler(svc)
	r := gin.New()
	r.POST("/documents/workflow", h.Run)
	r.POST("/documents/batch-workflow", h.RunBatch)
	r.GET("/documents", h.List)
	r.GET("/documents/:id", h.GetByID)
	r.DELETE("/documents/:id", h.Delete)
	r.GET("/workflow/status/:id", h.Status)
	r.GET("/workflow/export/:id", h.Export)
	return r
}

func TestWorkflowRunEndpoint(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	svc.On("Run", mock.Anything, mock.MatchedBy(func(in service.WorkflowInput) bool {
		return in.Filename == "invoice.pdf" && in.WebhookURL == "https://hooks.example/cb"
	})).Return(&service.WorkflowOutcome{
		Document:  domain.StoredDocument{Filename: "invoice.pdf", Status: domain.WorkflowCompleted},
		Result:    &domain.ExtractionResult{ExtractionMethod: "ollama"},
		Forwarded: true,
	}, nil)

	body, contentType := multipartBody(t,
		map[string][]string{"file": {"invoice.pdf"}},
		map[string]string{"webhook_url": "https://hooks.example/cb"})
	req := httptest.NewRequest(http.MethodPost, "/documents/workflow", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, true, data["forwarded"])
	svc.AssertExpectations(t)
}

func TestWorkflowBatchEndpoint(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	svc.On("RunBatch", mock.Anything, mock.MatchedBy(func(inputs []service.WorkflowInput) bool {
		return len(inputs) == 2
	})).Return(&service.BatchWorkflowOutcome{TotalDocuments: 2, Successful: 2}, nil)

	body, contentType := multipartBody(t, map[string][]string{"files": {"a.pdf", "b.pdf"}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/documents/batch-workflow", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestWorkflowList(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	svc.On("List", mock.Anything, 0, 20).Return([]domain.StoredDocument{
		{Filename: "a.pdf"}, {Filename: "b.pdf"},
	}, 42, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	meta := envelope["meta"].(map[string]any)
	assert.Equal(t, 42.0, meta["total"])
	assert.Equal(t, 20.0, meta["limit"])
}

func TestWorkflowList_ClampsLimit(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	svc.On("List", mock.Anything, 0, 20).Return([]domain.StoredDocument{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents?limit=5000&offset=-3", nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertCalled(t, "List", mock.Anything, 0, 20)
}

func TestWorkflowGetByID(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(&service.StoredDocumentView{
		Document:  domain.StoredDocument{ID: id, Filename: "invoice.pdf"},
		AccessURL: "https://signed.example/doc",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "https://signed.example/doc", data["access_url"])
}

func TestWorkflowGetByID_InvalidID(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	req := httptest.NewRequest(http.MethodGet, "/documents/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_ID", envelope["error"].(map[string]any)["code"])
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestWorkflowGetByID_NotFound(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(nil, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkflowDeleteEndpoint(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/documents/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "document deleted", envelope["data"].(map[string]any)["message"])
}

func TestWorkflowStatusEndpoint(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	id := uuid.New()
	svc.On("Status", mock.Anything, id).Return(domain.WorkflowProcessing, nil)

	req := httptest.NewRequest(http.MethodGet, "/workflow/status/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "processing", envelope["data"].(map[string]any)["status"])
}

func TestWorkflowExport_CSV(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(&service.StoredDocumentView{
		Document: domain.StoredDocument{ID: id},
		Result: &domain.ExtractionResult{
			DocumentType:     domain.DocumentTypeInvoice,
			ExtractionMethod: "ollama",
			ExtractedData:    map[string]any{"vendor_name": "ABC Corp"},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/workflow/export/"+id.String()+"?format=csv", nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "extract_")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	// UTF-8 BOM so spreadsheet apps pick the right encoding
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeff"))
	assert.Contains(t, rec.Body.String(), "ABC Corp")
}

func TestWorkflowExport_ResultNotReady(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(&service.StoredDocumentView{
		Document: domain.StoredDocument{ID: id, Status: domain.WorkflowProcessing},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/workflow/export/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "RESULT_NOT_READY", envelope["error"].(map[string]any)["code"])
}

func TestWorkflowExport_UnsupportedFormat(t *testing.T) {
	svc := &mocks.MockWorkflowService{}
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/workflow/export/"+id.String()+"?format=pdf", nil)
	rec := httptest.NewRecorder()
	newWorkflowRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "UNSUPPORTED_EXPORT_FORMAT", envelope["error"].(map[string]any)["code"])
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
