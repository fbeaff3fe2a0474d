package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "snapdocs/docs" // swagger docs registration

	"snapdocs/internal/config"
	"snapdocs/internal/handler"
	"snapdocs/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	docH *handler.DocumentHandler,
	workflowH *handler.WorkflowHandler,
	metaH *handler.MetaHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	if cfg.Auth.Enabled() {
		v1.Use(middleware.Auth(&cfg.Auth))
	}

	// Scan endpoints (stateless)
	documents := v1.Group("/documents")
	documents.POST("/scan", docH.Scan)
	documents.POST("/batch-scan", docH.BatchScan)

	// Workflow endpoints (persistent)
	documents.POST("/workflow", workflowH.Run)
	documents.POST("/batch-workflow", workflowH.RunBatch)
	documents.GET("", workflowH.List)
	documents.GET("/:id", workflowH.GetByID)
	documents.DELETE("/:id", workflowH.Delete)

	workflow := v1.Group("/workflow")
	workflow.GET("/status/:id", workflowH.Status)
	workflow.GET("/export/:id", workflowH.Export)

	// Discovery endpoints
	meta := v1.Group("/meta")
	meta.GET("/document-types", metaH.DocumentTypes)
	meta.GET("/backends", metaH.Backends)
	meta.GET("/supported-formats", metaH.SupportedFormats)
	meta.GET("/limits", metaH.Limits)

	return r
}
