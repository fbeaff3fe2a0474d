package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"snapdocs/internal/service"
)

// DocumentHandler handles stateless scan endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// Scan handles POST /api/v1/documents/scan
// @Summary Scan a document
// @Description Extract structured fields from an uploaded document (TXT, PDF, JPG, PNG)
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to scan"
// @Param document_type formData string false "Force a document type (invoice, contract, form, receipt)"
// @Param backend formData string false "Restrict extraction to a single backend (ollama, tgi, openai)"
// @Param include_raw_text formData bool false "Echo the extracted raw text in the result"
// @Success 200 {object} Response{data=domain.ExtractionResult} "Extraction result (degraded but well-formed when all backends fail)"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type, or unknown backend"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /documents/scan [post]
func (h *DocumentHandler) Scan(c *gin.Context) {
	input, ok := readScanForm(c)
	if !ok {
		return
	}

	result, err := h.docService.Process(c.Request.Context(), *input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// BatchScan handles POST /api/v1/documents/batch-scan
// @Summary Scan a batch of documents
// @Description Extract structured fields from multiple documents in one call
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Documents to scan (repeatable field)"
// @Param document_type formData string false "Force a document type for every document"
// @Param backend formData string false "Restrict extraction to a single backend"
// @Success 200 {object} Response{data=domain.BatchResult} "Per-document results in input order"
// @Failure 400 {object} ErrorResponseBody "Empty or oversized batch"
// @Router /documents/batch-scan [post]
func (h *DocumentHandler) BatchScan(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		return
	}

	headers := form.File["files"]
	inputs := make([]service.ProcessInput, 0, len(headers))
	for _, header := range headers {
		content, ok := readUpload(c, header)
		if !ok {
			return
		}
		inputs = append(inputs, service.ProcessInput{
			Filename:     header.Filename,
			Content:      content,
			ForceType:    c.PostForm("document_type"),
			ForceBackend: c.PostForm("backend"),
		})
	}

	batch, err := h.docService.ProcessBatch(c.Request.Context(), inputs)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, batch)
}

// readScanForm pulls the single-file scan parameters out of the request.
// On failure the error response has already been written.
func readScanForm(c *gin.Context) (*service.ProcessInput, bool) {
	_, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return nil, false
	}

	content, ok := readUpload(c, header)
	if !ok {
		return nil, false
	}

	return &service.ProcessInput{
		Filename:       header.Filename,
		Content:        content,
		ForceType:      c.PostForm("document_type"),
		ForceBackend:   c.PostForm("backend"),
		IncludeRawText: c.PostForm("include_raw_text") == "true",
	}, true
}

// readUpload reads one multipart file fully into memory. On failure the error
// response has already been written.
func readUpload(c *gin.Context, header *multipart.FileHeader) ([]byte, bool) {
	f, err := header.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not open uploaded file")
		return nil, false
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return nil, false
	}
	return content, true
}
