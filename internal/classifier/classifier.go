// Package classifier assigns a document type to raw text with a keyword
// scorer. It is deliberately simple: distinct keyword hits per type, highest
// count wins, ties and keyword-free text fall back to unknown so the prompt
// library routes them to its default template set.
package classifier

import (
	"strings"

	"snapdocs/internal/domain"
)

// keywords per document type. Phrases are matched against lowercased text.
var keywords = map[domain.DocumentType][]string{
	domain.DocumentTypeInvoice: {
		"invoice", "bill to", "amount due", "due date", "payment terms", "net 30",
	},
	domain.DocumentTypeContract: {
		"agreement", "contract", "party", "terms and conditions", "obligations", "effective date",
	},
	domain.DocumentTypeForm: {
		"form", "application", "registration", "date of birth", "emergency contact", "personal information",
	},
	domain.DocumentTypeReceipt: {
		"receipt", "cashier", "change due", "card payment", "cash paid", "thank you for",
	},
}

const (
	baseConfidence = 0.2
	perHit         = 0.2
	maxConfidence  = 0.95
)

// Classify returns the best-matching document type and a heuristic confidence
// in [0,1]. Unknown always carries confidence 0.
func Classify(text string) (domain.DocumentType, float64) {
	lower := strings.ToLower(text)

	best := domain.DocumentTypeUnknown
	bestHits := 0
	tied := false
	for _, docType := range domain.AllDocumentTypes {
		hits := 0
		for _, kw := range keywords[docType] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		switch {
		case hits > bestHits:
			best, bestHits, tied = docType, hits, false
		case hits == bestHits && hits > 0:
			tied = true
		}
	}

	if bestHits == 0 || tied {
		return domain.DocumentTypeUnknown, 0
	}
	return best, confidence(bestHits)
}

func confidence(hits int) float64 {
	score := baseConfidence + perHit*float64(hits)
	if score > maxConfidence {
		score = maxConfidence
	}
	return score
}
