// Package prompt loads the extraction prompt templates and interpolates
// document text into them. Templates are keyed by document type and backend
// name, with a default set used for unknown or unconfigured types. The
// library is immutable after Load; requests share it without locking.
package prompt

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"snapdocs/internal/domain"
)

// PreviewLength is the rune length of the {text_preview} placeholder value,
// used for backends with tight context limits.
const PreviewLength = 300

const (
	placeholderText    = "{text}"
	placeholderPreview = "{text_preview}"
)

var placeholderPattern = regexp.MustCompile(`\{[a-z_]+\}`)

// Library holds the parsed template sets.
type Library struct {
	documentTypes map[domain.DocumentType]map[string]string
	defaults      map[string]string
}

type librarySchema struct {
	DocumentTypes map[string]map[string]string `yaml:"document_types"`
	Default       map[string]string            `yaml:"default"`
}

// Load reads and validates a template file. Any malformed entry fails the
// load; a bad template set must never surface at request time.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: read %s: %w", path, domain.ErrConfiguration)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prompt: %s: %w", path, err)
	}
	return lib, nil
}

// Parse builds a Library from raw YAML and validates every template.
func Parse(data []byte) (*Library, error) {
	var schema librarySchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("invalid yaml: %v: %w", err, domain.ErrConfiguration)
	}

	if len(schema.Default) == 0 {
		return nil, fmt.Errorf("missing default template set: %w", domain.ErrConfiguration)
	}

	lib := &Library{
		documentTypes: make(map[domain.DocumentType]map[string]string, len(schema.DocumentTypes)),
		defaults:      make(map[string]string, len(schema.Default)),
	}

	for backend, tmpl := range schema.Default {
		if err := validateTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("default/%s: %w", backend, err)
		}
		lib.defaults[backend] = tmpl
	}

	for typeKey, backends := range schema.DocumentTypes {
		docType := domain.ParseDocumentType(typeKey)
		if docType == domain.DocumentTypeUnknown {
			return nil, fmt.Errorf("unknown document type %q: %w", typeKey, domain.ErrConfiguration)
		}
		set := make(map[string]string, len(backends))
		for backend, tmpl := range backends {
			if err := validateTemplate(tmpl); err != nil {
				return nil, fmt.Errorf("%s/%s: %w", typeKey, backend, err)
			}
			set[backend] = tmpl
		}
		lib.documentTypes[docType] = set
	}

	return lib, nil
}

func validateTemplate(tmpl string) error {
	if strings.TrimSpace(tmpl) == "" {
		return fmt.Errorf("empty template: %w", domain.ErrConfiguration)
	}
	matches := placeholderPattern.FindAllString(tmpl, -1)
	if len(matches) != 1 {
		return fmt.Errorf("template must contain exactly one placeholder, found %d: %w", len(matches), domain.ErrConfiguration)
	}
	if matches[0] != placeholderText && matches[0] != placeholderPreview {
		return fmt.Errorf("unknown placeholder %s: %w", matches[0], domain.ErrConfiguration)
	}
	return nil
}

// Build returns the filled prompt for (docType, backend). Lookup order is the
// exact document type entry, then the default set. A backend with no template
// even in the default set is a configuration error: it means the backend
// integration was never finished, not that the request is bad.
func (l *Library) Build(docType domain.DocumentType, backend, text string) (string, error) {
	tmpl, ok := l.lookup(docType, backend)
	if !ok {
		return "", fmt.Errorf("prompt: no template for backend %q: %w", backend, domain.ErrConfiguration)
	}

	filled := strings.ReplaceAll(tmpl, placeholderText, text)
	filled = strings.ReplaceAll(filled, placeholderPreview, Preview(text))
	return filled, nil
}

func (l *Library) lookup(docType domain.DocumentType, backend string) (string, bool) {
	if set, ok := l.documentTypes[docType]; ok {
		if tmpl, ok := set[backend]; ok {
			return tmpl, true
		}
	}
	tmpl, ok := l.defaults[backend]
	return tmpl, ok
}

// Preview returns the first PreviewLength runes of text.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}

// DocumentTypes lists the document types with a dedicated template set.
func (l *Library) DocumentTypes() []domain.DocumentType {
	types := make([]domain.DocumentType, 0, len(l.documentTypes))
	for t := range l.documentTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Backends lists every backend name that has at least one template.
func (l *Library) Backends() []string {
	seen := make(map[string]struct{}, len(l.defaults))
	for b := range l.defaults {
		seen[b] = struct{}{}
	}
	for _, set := range l.documentTypes {
		for b := range set {
			seen[b] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for b := range seen {
		names = append(names, b)
	}
	sort.Strings(names)
	return names
}
