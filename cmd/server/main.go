package main

import (
	"fmt"
	"log"
	"net/http"

	"snapdocs/internal/backend"
	"snapdocs/internal/backend/ollama"
	"snapdocs/internal/config"
	"snapdocs/internal/email/noop"
	"snapdocs/internal/email/ses"
	"snapdocs/internal/handler"
	"snapdocs/internal/ocr"
	"snapdocs/internal/policy"
	"snapdocs/internal/port"
	"snapdocs/internal/prompt"
	"snapdocs/internal/repository/postgres"
	"snapdocs/internal/router"
	"snapdocs/internal/service"
	s3storage "snapdocs/internal/storage/s3"
)

// @title SnapDocs API
// @version 1.0
// @description Document scanning service: OCR, classification, and LLM field extraction with a three-backend fallback chain.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Prompt templates fail fast here, never at request time.
	library, err := prompt.Load(cfg.Prompts.Path)
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	pol, err := policy.New(cfg.Policy.HighThreshold, cfg.Policy.MediumThreshold)
	if err != nil {
		return fmt.Errorf("failed to build confidence policy: %w", err)
	}

	chain, err := backend.FromConfig(cfg, library)
	if err != nil {
		return fmt.Errorf("failed to build backend chain: %w", err)
	}
	log.Printf("backend chain: %v", chain.Names())

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories and storage
	docRepo := postgres.NewDocumentRepo(db)
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	emailSender, err := newEmailSender(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	extractor := ocr.NewExtractor(ocr.Config{})

	// Initialize services
	docSvc := service.NewDocumentService(extractor, chain, pol, cfg)
	workflowSvc := service.NewWorkflowService(docSvc, docRepo, s3Client, emailSender, cfg)

	// The daemon probe feeds readiness and the backend meta endpoint.
	var prober handler.DaemonProber
	for _, name := range cfg.Chain.Order {
		if name == ollama.Name {
			prober = ollama.NewClient(&cfg.Ollama)
		}
	}

	// Initialize handlers
	docH := handler.NewDocumentHandler(docSvc)
	workflowH := handler.NewWorkflowHandler(workflowSvc)
	metaH := handler.NewMetaHandler(library, chain, prober, cfg)
	healthH := handler.NewHealthHandler(db, prober)

	// Setup router and serve
	r := router.Setup(cfg, docH, workflowH, metaH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newEmailSender(cfg *config.Config) (port.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
	default:
		return noop.NewNoopSender(), nil
	}
}
