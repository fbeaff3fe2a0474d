package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"snapdocs/internal/domain"
	"snapdocs/internal/handler"
	"snapdocs/internal/service"
	"snapdocs/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// multipartBody builds a multipart form with the given file fields and extra
// form values.
func multipartBody(t *testing.T, files map[string][]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for field, names := range files {
		for _, name := range names {
			fw, err := w.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = fw.Write([]byte("file content"))
			require.NoError(t, err)
		}
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func newDocumentRouter(svc service.DocumentService) *gin.Engine {
	h := handler.NewDocumentHandler(svc)
	r := gin.New()
	r.POST("/documents/scan", h.Scan)
	r.POST("/documents/batch-scan", h.BatchScan)
	return r
}

func TestScan_Success(t *testing.T) {
	svc := &mocks.MockDocumentService{}
	svc.On("Process", mock.Anything, mock.MatchedBy(func(in service.ProcessInput) bool {
		return in.Filename == "invoice.pdf" && string(in.Content) == "file content" &&
			in.ForceType == "invoice" && in.IncludeRawText
	})).Return(&domain.ExtractionResult{
		DocumentType:     domain.DocumentTypeInvoice,
		ExtractionMethod: "ollama",
	}, nil)

	body, contentType := multipartBody(t,
		map[string][]string{"file": {"invoice.pdf"}},
		map[string]string{"document_type": "invoice", "include_raw_text": "true"})

	req := httptest.NewRequest(http.MethodPost, "/documents/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newDocumentRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "invoice", data["document_type"])
	assert.Equal(t, "ollama", data["extraction_method"])
	svc.AssertExpectations(t)
}

func TestScan_MissingFile(t *testing.T) {
	svc := &mocks.MockDocumentService{}
	body, contentType := multipartBody(t, nil, map[string]string{"document_type": "invoice"})

	req := httptest.NewRequest(http.MethodPost, "/documents/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newDocumentRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "MISSING_FILE", envelope["error"].(map[string]any)["code"])
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestScan_FileTooLarge(t *testing.T) {
	svc := &mocks.MockDocumentService{}
	svc.On("Process", mock.Anything, mock.Anything).Return(nil, domain.ErrFileTooLarge)

	body, contentType := multipartBody(t, map[string][]string{"file": {"huge.pdf"}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/documents/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newDocumentRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "FILE_TOO_LARGE", envelope["error"].(map[string]any)["code"])
}

func TestScan_UnknownBackend(t *testing.T) {
	svc := &mocks.MockDocumentService{}
	svc.On("Process", mock.Anything, mock.Anything).Return(nil, domain.ErrUnknownBackend)

	body, contentType := multipartBody(t,
		map[string][]string{"file": {"doc.pdf"}},
		map[string]string{"backend": "claude"})
	req := httptest.NewRequest(http.MethodPost, "/documents/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newDocumentRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "UNKNOWN_BACKEND", envelope["error"].(map[string]any)["code"])
}

func TestBatchScan_Success(t *testing.T) {
	svc := &mocks.MockDocumentService{}
	svc.On("ProcessBatch", mock.Anything, mock.MatchedBy(func(inputs []service.ProcessInput) bool {
		return len(inputs) == 2 && inputs[0].Filename == "a.pdf" && inputs[1].Filename == "b.txt"
	})).Return(&domain.BatchResult{TotalDocuments: 2, Successful: 2}, nil)

	body, contentType := multipartBody(t, map[string][]string{"files": {"a.pdf", "b.txt"}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/documents/batch-scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newDocumentRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, 2.0, data["total_documents"])
	svc.AssertExpectations(t)
}

func TestBatchScan_EmptyBatch(t *testing.T) {
	svc := &mocks.MockDocumentService{}
	svc.On("ProcessBatch", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyBatch)

	body, contentType := multipartBody(t, nil, map[string]string{"document_type": "invoice"})
	req := httptest.NewRequest(http.MethodPost, "/documents/batch-scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newDocumentRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "EMPTY_BATCH", envelope["error"].(map[string]any)["code"])
}
