package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"snapdocs/internal/domain"
	"snapdocs/internal/export"
	"snapdocs/internal/service"
)

// WorkflowHandler handles the persistent document workflow endpoints.
type WorkflowHandler struct {
	workflowService service.WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler(workflowService service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// Run handles POST /api/v1/documents/workflow
// @Summary Run the full document workflow
// @Description Scan a document, store the upload and result, and fire configured notifications
// @Tags workflow
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to process"
// @Param document_type formData string false "Force a document type"
// @Param backend formData string false "Restrict extraction to a single backend"
// @Param webhook_url formData string false "URL to POST the result JSON to"
// @Success 201 {object} Response{data=service.WorkflowOutcome} "Stored document with result and access URL"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /documents/workflow [post]
func (h *WorkflowHandler) Run(c *gin.Context) {
	input, ok := readScanForm(c)
	if !ok {
		return
	}

	outcome, err := h.workflowService.Run(c.Request.Context(), service.WorkflowInput{
		ProcessInput: *input,
		WebhookURL:   c.PostForm("webhook_url"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, outcome)
}

// RunBatch handles POST /api/v1/documents/batch-workflow
// @Summary Run the document workflow over a batch
// @Tags workflow
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Documents to process (repeatable field)"
// @Param document_type formData string false "Force a document type for every document"
// @Param webhook_url formData string false "URL to POST each result JSON to"
// @Success 201 {object} Response{data=service.BatchWorkflowOutcome} "Per-document outcomes in input order"
// @Failure 400 {object} ErrorResponseBody "Empty or oversized batch"
// @Router /documents/batch-workflow [post]
func (h *WorkflowHandler) RunBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		return
	}

	headers := form.File["files"]
	inputs := make([]service.WorkflowInput, 0, len(headers))
	for _, header := range headers {
		content, ok := readUpload(c, header)
		if !ok {
			return
		}
		inputs = append(inputs, service.WorkflowInput{
			ProcessInput: service.ProcessInput{
				Filename:  header.Filename,
				Content:   content,
				ForceType: c.PostForm("document_type"),
			},
			WebhookURL: c.PostForm("webhook_url"),
		})
	}

	batch, err := h.workflowService.RunBatch(c.Request.Context(), inputs)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, batch)
}

// List handles GET /api/v1/documents
// @Summary List stored documents
// @Tags workflow
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.StoredDocument,meta=PagMeta} "Stored documents"
// @Router /documents [get]
func (h *WorkflowHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	docs, total, err := h.workflowService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a stored document
// @Description Returns the stored document, its decoded result, and a fresh presigned access URL
// @Tags workflow
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=service.StoredDocumentView}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /documents/{id} [get]
func (h *WorkflowHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.workflowService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a stored document
// @Description Removes the stored row and the uploaded object
// @Tags workflow
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /documents/{id} [delete]
func (h *WorkflowHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.workflowService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}

// Status handles GET /api/v1/workflow/status/:id
// @Summary Get workflow status
// @Tags workflow
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=WorkflowStatusResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /workflow/status/{id} [get]
func (h *WorkflowHandler) Status(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	status, err := h.workflowService.Status(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "status": status})
}

// Export handles GET /api/v1/workflow/export/:id
// @Summary Export a stored result
// @Description Renders the stored extraction result as JSON, CSV, XML, or XLSX
// @Tags workflow
// @Produce json
// @Param id path string true "Document ID"
// @Param format query string false "Export format (json, csv, xml, xlsx)" default(json)
// @Success 200 {file} file "Rendered export with attachment disposition"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 404 {object} ErrorResponseBody "Document or result not found"
// @Router /workflow/export/{id} [get]
func (h *WorkflowHandler) Export(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	view, err := h.workflowService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if view.Result == nil {
		RespondError(c, http.StatusNotFound, "RESULT_NOT_READY", "document has no stored result yet")
		return
	}

	data, contentType, err := export.Render(format, view.Result)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(id.String(), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// parseID reads the :id path parameter. On failure the error response has
// already been written.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document id")
		return uuid.Nil, false
	}
	return id, true
}
