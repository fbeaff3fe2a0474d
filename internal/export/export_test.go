package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"snapdocs/internal/domain"
)

func sampleResult() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		DocumentType:     domain.DocumentTypeInvoice,
		ExtractionMethod: "ollama",
		Model:            "Llama 2",
		ConfidenceScore:  0.76,
		ConfidenceLevel:  domain.ConfidenceMedium,
		NeedsHumanReview: true,
		ProcessingTime:   domain.Duration(1200 * time.Millisecond),
		UploadedFile:     "invoice.pdf",
		FileSize:         2048,
		FileType:         domain.FileTypePDF,
		ExtractedData: map[string]any{
			"vendor_name":  "ABC <Corp> & Sons",
			"total_amount": "50.00",
			"line_count":   3.0,
		},
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleResult())

	// Metadata first, in fixed order
	assert.Equal(t, Row{"Document Type", "invoice"}, rows[0])
	assert.Equal(t, Row{"Extraction Method", "ollama"}, rows[1])
	assert.Equal(t, Row{"Needs Human Review", "Yes"}, rows[5])
	assert.Equal(t, Row{"Processing Time", "1.2s"}, rows[6])

	// Extracted fields follow in alphabetical order
	tail := rows[len(rows)-3:]
	assert.Equal(t, Row{"line_count", "3"}, tail[0])
	assert.Equal(t, Row{"total_amount", "50.00"}, tail[1])
	assert.Equal(t, Row{"vendor_name", "ABC <Corp> & Sons"}, tail[2])
}

func TestRenderCSV(t *testing.T) {
	data, contentType, err := Render(domain.ExportCSV, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", contentType)
	require.True(t, bytes.HasPrefix(data, BOM))

	records, err := csv.NewReader(bytes.NewReader(data[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value"}, records[0])
	assert.Equal(t, []string{"Document Type", "invoice"}, records[1])
	assert.Equal(t, []string{"vendor_name", "ABC <Corp> & Sons"}, records[len(records)-1])
}

func TestRenderJSON(t *testing.T) {
	data, contentType, err := Render(domain.ExportJSON, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var decoded domain.ExtractionResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, domain.DocumentTypeInvoice, decoded.DocumentType)
	assert.Equal(t, "ollama", decoded.ExtractionMethod)
}

func TestRenderXML(t *testing.T) {
	data, contentType, err := Render(domain.ExportXML, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "application/xml", contentType)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "<document_type>invoice</document_type>")
	assert.Contains(t, s, "<needs_human_review>true</needs_human_review>")
	// Field values are escaped, not trusted
	assert.Contains(t, s, "ABC &lt;Corp&gt; &amp; Sons")
	assert.NotContains(t, s, "<Corp>")
}

func TestRenderXLSX(t *testing.T) {
	data, contentType, err := Render(domain.ExportXLSX, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	assert.Equal(t, []string{"Document Type", "invoice"}, rows[1])

	found := false
	for _, row := range rows {
		if len(row) == 2 && row[0] == "vendor_name" {
			assert.Equal(t, "ABC <Corp> & Sons", row[1])
			found = true
		}
	}
	assert.True(t, found)
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, _, err := Render(domain.ExportFormat("pdf"), sampleResult())
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)
}

func TestBuildFilename(t *testing.T) {
	assert.Equal(t, "extract_abc-123.csv", BuildFilename("abc-123", domain.ExportCSV))
	assert.Equal(t, "extract_a_b.json", BuildFilename("a b", domain.ExportJSON))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "invoice.pdf", SanitizeFilename("invoice.pdf"))
	assert.Equal(t, "my_scan_1_.pdf", SanitizeFilename("my scan (1).pdf"))
	assert.Equal(t, "document", SanitizeFilename("///"))
	assert.Equal(t, "a_b", SanitizeFilename("a___b"))
	assert.Len(t, SanitizeFilename(strings.Repeat("x", 300)), 100)
}

func TestSanitizeElementName(t *testing.T) {
	assert.Equal(t, "vendor_name", sanitizeElementName("Vendor Name"))
	assert.Equal(t, "field_2023_total", sanitizeElementName("2023 total"))
	assert.Equal(t, "field", sanitizeElementName("!!!"))
	assert.Equal(t, "total_usd", sanitizeElementName("total (USD)"))
}
