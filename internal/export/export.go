// Package export renders extraction results for download as CSV, XLSX, XML,
// or indented JSON.
package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"snapdocs/internal/domain"
)

// Row is one key/value line of a flattened result.
type Row struct {
	Key   string
	Value string
}

// Flatten turns a result into ordered rows: the result metadata first, then
// the extracted fields in alphabetical order.
func Flatten(res *domain.ExtractionResult) []Row {
	rows := []Row{
		{"Document Type", string(res.DocumentType)},
		{"Extraction Method", res.ExtractionMethod},
		{"Model", res.Model},
		{"Confidence Score", strconv.FormatFloat(res.ConfidenceScore, 'f', 2, 64)},
		{"Confidence Level", string(res.ConfidenceLevel)},
		{"Needs Human Review", formatBool(res.NeedsHumanReview)},
		{"Processing Time", time.Duration(res.ProcessingTime).String()},
		{"Uploaded File", res.UploadedFile},
		{"File Size", strconv.FormatInt(res.FileSize, 10)},
		{"File Type", string(res.FileType)},
	}

	keys := make([]string, 0, len(res.ExtractedData))
	for k := range res.ExtractedData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, Row{k, formatValue(res.ExtractedData[k])})
	}
	return rows
}

// Render serializes a result in the requested format and returns the payload
// with its content type.
func Render(format domain.ExportFormat, res *domain.ExtractionResult) (data []byte, contentType string, err error) {
	switch format {
	case domain.ExportJSON:
		data, err = json.MarshalIndent(res, "", "  ")
		return data, "application/json", err
	case domain.ExportCSV:
		data, err = renderCSV(res)
		return data, "text/csv; charset=utf-8", err
	case domain.ExportXML:
		data, err = renderXML(res)
		return data, "application/xml", err
	case domain.ExportXLSX:
		data, err = renderXLSX(res)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		return nil, "", domain.ErrUnsupportedExportFormat
	}
}

// BuildFilename returns the download filename for an exported result.
func BuildFilename(id string, format domain.ExportFormat) string {
	return fmt.Sprintf("extract_%s.%s", SanitizeFilename(id), format)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in object keys and
// Content-Disposition headers. Replaces disallowed characters with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}
	return s
}

// formatValue renders an extracted value as a cell string. Nested structures
// are kept as compact JSON.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return formatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
