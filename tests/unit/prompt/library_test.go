package prompt_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapdocs/internal/domain"
	"snapdocs/internal/prompt"
)

const validYAML = `
document_types:
  invoice:
    ollama: "Extract invoice fields from: {text}"
    tgi: "Invoice preview: {text_preview}"
  receipt:
    ollama: "Extract receipt fields from: {text}"
default:
  ollama: "Extract fields from: {text}"
  tgi: "Preview: {text_preview}"
  openai: "Extract everything from: {text}"
`

func TestParse_Valid(t *testing.T) {
	lib, err := prompt.Parse([]byte(validYAML))
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.DocumentType{domain.DocumentTypeInvoice, domain.DocumentTypeReceipt}, lib.DocumentTypes())
	assert.Equal(t, []string{"ollama", "openai", "tgi"}, lib.Backends())
}

func TestParse_MissingDefault(t *testing.T) {
	_, err := prompt.Parse([]byte(`
document_types:
  invoice:
    ollama: "Extract: {text}"
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestParse_EmptyTemplate(t *testing.T) {
	_, err := prompt.Parse([]byte(`
default:
  ollama: "   "
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestParse_UnknownPlaceholder(t *testing.T) {
	_, err := prompt.Parse([]byte(`
default:
  ollama: "Extract: {document}"
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestParse_MultiplePlaceholders(t *testing.T) {
	_, err := prompt.Parse([]byte(`
default:
  ollama: "Extract {text} and also {text}"
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestParse_ZeroPlaceholders(t *testing.T) {
	_, err := prompt.Parse([]byte(`
default:
  ollama: "Extract the fields please"
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestParse_UnknownDocumentType(t *testing.T) {
	_, err := prompt.Parse([]byte(`
document_types:
  memo:
    ollama: "Extract: {text}"
default:
  ollama: "Extract: {text}"
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestBuild_ExactMatch(t *testing.T) {
	lib, err := prompt.Parse([]byte(validYAML))
	require.NoError(t, err)

	p, err := lib.Build(domain.DocumentTypeInvoice, "ollama", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "Extract invoice fields from: hello world", p)
}

func TestBuild_DefaultFallbackForUnknownType(t *testing.T) {
	lib, err := prompt.Parse([]byte(validYAML))
	require.NoError(t, err)

	p, err := lib.Build(domain.DocumentTypeUnknown, "openai", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Extract everything from: hello", p)
}

func TestBuild_DefaultFallbackForMissingBackendEntry(t *testing.T) {
	lib, err := prompt.Parse([]byte(validYAML))
	require.NoError(t, err)

	// receipt has no tgi entry, so the default set serves it
	p, err := lib.Build(domain.DocumentTypeReceipt, "tgi", "short text")
	require.NoError(t, err)
	assert.Equal(t, "Preview: short text", p)
}

func TestBuild_NoTemplateAnywhere(t *testing.T) {
	lib, err := prompt.Parse([]byte(validYAML))
	require.NoError(t, err)

	_, err = lib.Build(domain.DocumentTypeInvoice, "claude", "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestBuild_PreviewTruncation(t *testing.T) {
	lib, err := prompt.Parse([]byte(validYAML))
	require.NoError(t, err)

	long := strings.Repeat("a", prompt.PreviewLength+50)
	p, err := lib.Build(domain.DocumentTypeInvoice, "tgi", long)
	require.NoError(t, err)
	assert.Contains(t, p, strings.Repeat("a", prompt.PreviewLength))
	assert.NotContains(t, p, strings.Repeat("a", prompt.PreviewLength+1))
}

func TestPreview_RuneSafe(t *testing.T) {
	long := strings.Repeat("é", prompt.PreviewLength+10)
	preview := prompt.Preview(long)
	assert.Equal(t, strings.Repeat("é", prompt.PreviewLength), preview)
}

// TestShippedTemplates_InterpolateExactlyOnce loads the prompts.yaml the
// server ships with and checks that every configured (document type, backend)
// pair interpolates the input text exactly once.
func TestShippedTemplates_InterpolateExactlyOnce(t *testing.T) {
	lib, err := prompt.Load(filepath.Join("..", "..", "..", "prompts.yaml"))
	require.NoError(t, err)

	const marker = "ZXQMARKERQXZ"
	types := append(lib.DocumentTypes(), domain.DocumentTypeUnknown)
	for _, docType := range types {
		for _, backendName := range lib.Backends() {
			p, err := lib.Build(docType, backendName, marker)
			require.NoError(t, err, "%s/%s", docType, backendName)
			assert.NotEmpty(t, p)
			assert.Equal(t, 1, strings.Count(p, marker), "%s/%s", docType, backendName)
		}
	}
}

func TestShippedTemplates_InvoiceScenario(t *testing.T) {
	lib, err := prompt.Load(filepath.Join("..", "..", "..", "prompts.yaml"))
	require.NoError(t, err)

	text := "Invoice #123 from ABC Corp, total $50.00"
	p, err := lib.Build(domain.DocumentTypeInvoice, "openai", text)
	require.NoError(t, err)
	assert.Contains(t, p, "ABC Corp")
	assert.Contains(t, p, "Return ONLY the JSON object")
}
