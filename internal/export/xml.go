package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"snapdocs/internal/domain"
)

// renderXML writes a <document> element with the result metadata and one
// child element per extracted field. Field names become element names after
// sanitization, so arbitrary model output cannot break the markup.
func renderXML(res *domain.ExtractionResult) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<document>\n")

	writeElement(&buf, 1, "document_type", string(res.DocumentType))
	writeElement(&buf, 1, "extraction_method", res.ExtractionMethod)
	writeElement(&buf, 1, "model", res.Model)
	writeElement(&buf, 1, "confidence_score", fmt.Sprintf("%.2f", res.ConfidenceScore))
	writeElement(&buf, 1, "confidence_level", string(res.ConfidenceLevel))
	writeElement(&buf, 1, "needs_human_review", fmt.Sprintf("%t", res.NeedsHumanReview))
	writeElement(&buf, 1, "processing_time", time.Duration(res.ProcessingTime).String())
	writeElement(&buf, 1, "uploaded_file", res.UploadedFile)

	buf.WriteString("  <extracted_data>\n")
	keys := make([]string, 0, len(res.ExtractedData))
	for k := range res.ExtractedData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeElement(&buf, 2, sanitizeElementName(k), formatValue(res.ExtractedData[k]))
	}
	buf.WriteString("  </extracted_data>\n")

	buf.WriteString("</document>\n")
	return buf.Bytes(), nil
}

func writeElement(buf *bytes.Buffer, depth int, name, value string) {
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString("<" + name + ">")
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteString("</" + name + ">\n")
}

var invalidElementChars = regexp.MustCompile(`[^a-z0-9_]+`)

// sanitizeElementName maps an arbitrary field key to a valid XML element
// name: lowercase, underscores for everything else, letter or underscore
// first.
func sanitizeElementName(key string) string {
	name := invalidElementChars.ReplaceAllString(strings.ToLower(key), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "field"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "field_" + name
	}
	return name
}
