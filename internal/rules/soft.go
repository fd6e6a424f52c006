package rules

import (
	"strings"

	"invoice-reconciliation-service/internal/models"
)

// NameSimilarity compares the transaction counterparty with the document
// issuer name by lowercase whitespace tokenisation. The overlap ratio is
// the number of counterparty tokens also present in the issuer name,
// divided by the counterparty token count (at least 1). Any overlap earns
// a small boost.
type NameSimilarity struct{}

// Name returns the rule's trace token.
func (NameSimilarity) Name() string { return TraceNameSimilarity }

// Evaluate applies the rule to one pair.
func (NameSimilarity) Evaluate(tx *models.Transaction, doc *models.Document, prefs *models.MatchingPreferences) Outcome {
	txTokens := tokenize(tx.Counterparty)
	docTokens := tokenize(doc.IssuerName)

	docSet := make(map[string]struct{}, len(docTokens))
	for _, token := range docTokens {
		docSet[token] = struct{}{}
	}

	common := 0
	for _, token := range txTokens {
		if _, ok := docSet[token]; ok {
			common++
		}
	}

	denom := len(txTokens)
	if denom < 1 {
		denom = 1
	}
	overlap := float64(common) / float64(denom)

	delta := 0.0
	if overlap > 0 {
		delta = nameOverlapBoost
	}

	return Outcome{
		Accept:          true,
		ConfidenceDelta: delta,
		Trace:           []string{TraceNameSimilarity},
	}
}

// RefMatch boosts confidence when the document's payment reference appears
// as a substring of the transaction description or counterparty, compared
// case-insensitively. A document without a reference does not apply.
type RefMatch struct{}

// Name returns the rule's trace token.
func (RefMatch) Name() string { return TraceRefMatch }

// Evaluate applies the rule to one pair.
func (RefMatch) Evaluate(tx *models.Transaction, doc *models.Document, prefs *models.MatchingPreferences) Outcome {
	ref := strings.ToLower(doc.PaymentReference)
	if ref == "" {
		return Outcome{Accept: true, Trace: []string{TraceRefMatch}}
	}

	found := strings.Contains(strings.ToLower(tx.Description), ref) ||
		strings.Contains(strings.ToLower(tx.Counterparty), ref)

	delta := 0.0
	if found {
		delta = refMatchBoost
	}

	return Outcome{
		Accept:          true,
		ConfidenceDelta: delta,
		Trace:           []string{TraceRefMatch},
	}
}

// PartialPayments detects transactions strictly smaller than the document
// total. When partial payments are allowed the pattern is tolerated with
// no penalty, leaving the ambiguity to classification thresholds; when
// they are not, the rule answers with a reject-style outcome. It runs in
// the scoring stage, where Accept is recorded but never drops the
// candidate, so the penalty can only depress confidence.
type PartialPayments struct{}

// Name returns the rule's trace token.
func (PartialPayments) Name() string { return TracePartialPayments }

// Evaluate applies the rule to one pair.
func (PartialPayments) Evaluate(tx *models.Transaction, doc *models.Document, prefs *models.MatchingPreferences) Outcome {
	if tx.Amount != nil && tx.Amount.LessThan(doc.TotalAmount) {
		if prefs.AllowPartialPayments {
			return Outcome{Accept: true, Trace: []string{TracePartialPayments}}
		}
		return Outcome{
			Accept:          false,
			ConfidenceDelta: partialPenalty,
			Trace:           []string{TracePartialPayments},
		}
	}

	return Outcome{Accept: true, Trace: []string{TracePartialPayments}}
}

// tokenize lowercases and whitespace-splits free text.
func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
