// Package policy maps confidence scores to discrete levels and a human-review
// flag. Thresholds are fixed at construction; evaluation is a pure function.
package policy

import (
	"fmt"

	"snapdocs/internal/domain"
)

// Default thresholds. A score at or above High is high confidence, at or
// above Medium is medium, anything below is low.
const (
	DefaultHighThreshold   = 0.8
	DefaultMediumThreshold = 0.6
)

// Policy holds the confidence thresholds.
type Policy struct {
	high   float64
	medium float64
}

// New validates the thresholds and returns a Policy.
func New(high, medium float64) (*Policy, error) {
	if high < 0 || high > 1 || medium < 0 || medium > 1 {
		return nil, fmt.Errorf("policy: thresholds must be in [0,1]: %w", domain.ErrConfiguration)
	}
	if medium > high {
		return nil, fmt.Errorf("policy: medium threshold %.2f exceeds high threshold %.2f: %w", medium, high, domain.ErrConfiguration)
	}
	return &Policy{high: high, medium: medium}, nil
}

// Default returns a Policy with the standard thresholds.
func Default() *Policy {
	return &Policy{high: DefaultHighThreshold, medium: DefaultMediumThreshold}
}

// Evaluate buckets a score and reports whether a human should review the
// result. Anything short of high confidence is flagged.
func (p *Policy) Evaluate(score float64) (domain.ConfidenceLevel, bool) {
	level := p.Level(score)
	return level, level != domain.ConfidenceHigh
}

// Level returns the confidence bucket for a score.
func (p *Policy) Level(score float64) domain.ConfidenceLevel {
	switch {
	case score >= p.high:
		return domain.ConfidenceHigh
	case score >= p.medium:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// OverallConfidence blends the classifier confidence with extraction
// completeness, weighted toward completeness. Completeness is the share of
// non-empty extracted fields; an extraction that failed or produced nothing
// counts as half-complete so the classifier signal still dominates the blend.
func OverallConfidence(classifierConfidence float64, extracted map[string]any) float64 {
	completeness := 0.5
	if len(extracted) > 0 {
		if _, hasErr := extracted["error"]; !hasErr {
			nonEmpty := 0
			for _, v := range extracted {
				if !isEmptyValue(v) {
					nonEmpty++
				}
			}
			completeness = float64(nonEmpty) / float64(len(extracted))
		}
	}

	score := classifierConfidence*0.4 + completeness*0.6
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
