// Package ocr extracts plain text from uploaded documents by shelling out
// to poppler (pdftotext, pdftoppm) and tesseract.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snapdocs/internal/domain"
)

// NoTextFound is returned as the extracted text when OCR finds nothing in an
// image. Downstream processing continues with it instead of failing the scan.
const NoTextFound = "No text found in image"

// Config holds OCR tool settings. Zero values select the binaries from PATH.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit
}

// Extractor turns uploaded file bytes into plain text.
type Extractor struct {
	cfg    Config
	runner Runner
}

// NewExtractor creates an Extractor that runs the real OCR binaries.
func NewExtractor(cfg Config) *Extractor {
	return NewExtractorWithRunner(cfg, execRunner{})
}

// NewExtractorWithRunner creates an Extractor with a custom command runner,
// for testing.
func NewExtractorWithRunner(cfg Config, runner Runner) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: runner}
}

// Extract picks a strategy based on the detected file type.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileType domain.FileType) (string, error) {
	switch fileType {
	case domain.FileTypeTXT:
		return decodeText(content), nil
	case domain.FileTypePDF:
		return e.extractPDF(ctx, content)
	case domain.FileTypeJPG, domain.FileTypePNG:
		return e.extractImage(ctx, content, fileType)
	default:
		return "", fmt.Errorf("extracting text from %q: %w", fileType, domain.ErrUnsupportedFileType)
	}
}

// extractPDF tries the embedded text layer first and falls back to
// rasterizing pages and running OCR when the layer is empty (scanned PDFs).
func (e *Extractor) extractPDF(ctx context.Context, content []byte) (string, error) {
	path, cleanup, err := writeTemp(content, ".pdf")
	if err != nil {
		return "", err
	}
	defer cleanup()

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, _, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("running pdftotext: %w", err)
	}
	if text := strings.TrimSpace(string(out)); text != "" {
		return text, nil
	}

	log.Printf("ocr.Extractor.extractPDF: empty text layer, falling back to page OCR")
	return e.pdfToOCR(ctx, path)
}

// pdfToOCR rasterizes the PDF with pdftoppm and runs tesseract per page.
func (e *Extractor) pdfToOCR(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "snapdocs-pages-*")
	if err != nil {
		return "", fmt.Errorf("creating page dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, _, err = e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("running pdftoppm: %w", err)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no pages")
	}

	var b strings.Builder
	for _, img := range matches {
		text, err := e.tesseractOCR(ctx, img)
		if err != nil {
			log.Printf("ocr.Extractor.pdfToOCR: page %s failed: %v", filepath.Base(img), err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String()), nil
}

func (e *Extractor) extractImage(ctx context.Context, content []byte, fileType domain.FileType) (string, error) {
	ext := "." + string(fileType)
	path, cleanup, err := writeTemp(content, ext)
	if err != nil {
		return "", err
	}
	defer cleanup()

	text, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return NoTextFound, nil
	}
	return strings.TrimSpace(text), nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w", err)
	}
	return string(out), nil
}

// writeTemp stores upload bytes in a temp file so the OCR binaries can read
// them, returning the path and a cleanup func.
func writeTemp(content []byte, ext string) (string, func(), error) {
	f, err := os.CreateTemp("", "snapdocs-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { os.Remove(path) }

	if _, err := f.Write(content); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// decodeText interprets a plain-text upload, stripping a UTF-8 BOM if present.
func decodeText(content []byte) string {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	return string(content)
}
