package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"snapdocs/internal/backend"
	"snapdocs/internal/config"
	"snapdocs/internal/domain"
	"snapdocs/internal/prompt"
)

// DaemonProber checks whether the local model daemon is reachable.
// Implemented by the ollama client.
type DaemonProber interface {
	Ping(ctx context.Context) error
}

// MetaHandler serves the discovery endpoints: document types, backends,
// formats, limits.
type MetaHandler struct {
	library *prompt.Library
	chain   *backend.Chain
	prober  DaemonProber
	cfg     *config.Config
}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler(library *prompt.Library, chain *backend.Chain, prober DaemonProber, cfg *config.Config) *MetaHandler {
	return &MetaHandler{library: library, chain: chain, prober: prober, cfg: cfg}
}

// DocumentTypes handles GET /api/v1/meta/document-types
// @Summary List classifiable document types
// @Tags meta
// @Produce json
// @Success 200 {object} Response
// @Router /meta/document-types [get]
func (h *MetaHandler) DocumentTypes(c *gin.Context) {
	RespondOK(c, gin.H{
		"document_types": domain.AllDocumentTypes,
		"templated":      h.library.DocumentTypes(),
		"default":        domain.DocumentTypeUnknown,
	})
}

// BackendInfo describes one backend in the fallback chain.
type BackendInfo struct {
	Name         string `json:"name"`
	Model        string `json:"model"`
	DisplayName  string `json:"display_name"`
	Availability string `json:"availability"`
}

// Backends handles GET /api/v1/meta/backends
// @Summary List the backend fallback chain
// @Description Chain order, configured models, and a daemon availability probe
// @Tags meta
// @Produce json
// @Success 200 {object} Response{data=[]BackendInfo}
// @Router /meta/backends [get]
func (h *MetaHandler) Backends(c *gin.Context) {
	infos := make([]BackendInfo, 0, 3)
	for _, name := range h.chain.Names() {
		info := BackendInfo{Name: name, Availability: "unchecked"}
		switch name {
		case "ollama":
			info.Model = h.cfg.Ollama.Model
			info.Availability = h.probeDaemon(c.Request.Context())
		case "tgi":
			info.Model = h.cfg.TGI.Model
		case "openai":
			info.Model = h.cfg.OpenAI.Model
		}
		info.DisplayName = backend.ModelDisplayName(name, info.Model)
		infos = append(infos, info)
	}
	RespondOK(c, infos)
}

// SupportedFormats handles GET /api/v1/meta/supported-formats
// @Summary List supported upload and export formats
// @Tags meta
// @Produce json
// @Success 200 {object} Response
// @Router /meta/supported-formats [get]
func (h *MetaHandler) SupportedFormats(c *gin.Context) {
	RespondOK(c, gin.H{
		"upload_extensions": domain.SupportedExtensionList(),
		"export_formats": []domain.ExportFormat{
			domain.ExportJSON, domain.ExportCSV, domain.ExportXML, domain.ExportXLSX,
		},
		"max_file_size_mb": h.cfg.Limits.MaxFileSizeMB,
	})
}

// Limits handles GET /api/v1/meta/limits
// @Summary List upload and batch limits
// @Tags meta
// @Produce json
// @Success 200 {object} Response
// @Router /meta/limits [get]
func (h *MetaHandler) Limits(c *gin.Context) {
	RespondOK(c, gin.H{
		"max_file_size_mb":  h.cfg.Limits.MaxFileSizeMB,
		"max_batch_files":   h.cfg.Limits.MaxBatchFiles,
		"batch_concurrency": h.cfg.Batch.Concurrency,
	})
}

func (h *MetaHandler) probeDaemon(ctx context.Context) string {
	if h.prober == nil {
		return "unchecked"
	}
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.prober.Ping(probeCtx); err != nil {
		return "unreachable"
	}
	return "ok"
}
