package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"snapdocs/internal/classifier"
	"snapdocs/internal/domain"
)

func TestClassify_Invoice(t *testing.T) {
	docType, confidence := classifier.Classify("Invoice #123 from ABC Corp, total $50.00")
	assert.Equal(t, domain.DocumentTypeInvoice, docType)
	assert.Greater(t, confidence, 0.0)
}

func TestClassify_Contract(t *testing.T) {
	text := "This agreement is entered into by each party, subject to the terms and conditions below, with an effective date of January 1."
	docType, confidence := classifier.Classify(text)
	assert.Equal(t, domain.DocumentTypeContract, docType)
	assert.GreaterOrEqual(t, confidence, 0.2)
}

func TestClassify_Receipt(t *testing.T) {
	text := "RECEIPT\nCashier: Dana\nCard payment approved\nChange due: $0.00\nThank you for shopping with us"
	docType, _ := classifier.Classify(text)
	assert.Equal(t, domain.DocumentTypeReceipt, docType)
}

func TestClassify_NoKeywords(t *testing.T) {
	docType, confidence := classifier.Classify("The quick brown fox jumps over the lazy dog.")
	assert.Equal(t, domain.DocumentTypeUnknown, docType)
	assert.Zero(t, confidence)
}

func TestClassify_TieIsUnknown(t *testing.T) {
	// One invoice keyword and one contract keyword
	docType, confidence := classifier.Classify("invoice agreement")
	assert.Equal(t, domain.DocumentTypeUnknown, docType)
	assert.Zero(t, confidence)
}

func TestClassify_ConfidenceGrowsWithHits(t *testing.T) {
	_, one := classifier.Classify("invoice")
	_, three := classifier.Classify("invoice with amount due by the due date")
	assert.Greater(t, three, one)
}

func TestClassify_ConfidenceCapped(t *testing.T) {
	text := "invoice bill to amount due due date payment terms net 30"
	_, confidence := classifier.Classify(text)
	assert.LessOrEqual(t, confidence, 0.95)
}

func TestClassify_EmptyText(t *testing.T) {
	docType, confidence := classifier.Classify("")
	assert.Equal(t, domain.DocumentTypeUnknown, docType)
	assert.Zero(t, confidence)
}
