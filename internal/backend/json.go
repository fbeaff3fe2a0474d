package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"snapdocs/internal/domain"
)

// HarvestJSON extracts the first JSON object embedded in raw model output.
// Models wrap their answer in prose or code fences often enough that taking
// the span from the first '{' to the last '}' is the reliable path.
func HarvestJSON(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in response: %w", domain.ErrMalformedOutput)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return nil, fmt.Errorf("invalid JSON in response: %v: %w", err, domain.ErrMalformedOutput)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty JSON object in response: %w", domain.ErrMalformedOutput)
	}
	return fields, nil
}
