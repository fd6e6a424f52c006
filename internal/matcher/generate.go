package matcher

import (
	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/rules"
)

// Candidate is one transaction/document pair that survived every hard
// filter. Generation creates it, scoring extends its confidence and trace,
// and classification treats it as read-only.
type Candidate struct {
	Transaction *models.Transaction
	Document    *models.Document

	// Confidence is the accumulated rule confidence. It is the raw sum of
	// hard-rule deltas after generation and clamped to [0, 1] from the
	// scoring stage onwards.
	Confidence float64

	// RuleTrace lists every rule token that evaluated this pair, in order.
	RuleTrace []string
}

// GenerateCandidates runs the hard-filter stage. Every transaction/document
// pair in the cross-product is evaluated against the hard rules in their
// fixed order, short-circuiting on the first rejection. The rejecting
// rule's trace token is still recorded before the pair is discarded.
//
// The returned candidates follow transaction-major, document-minor
// enumeration order; no other ordering is guaranteed.
func GenerateCandidates(transactions []*models.Transaction, documents []*models.Document, prefs *models.MatchingPreferences) []*Candidate {
	if prefs == nil {
		prefs = models.DefaultMatchingPreferences()
	}

	hardRules := rules.HardRules()
	var candidates []*Candidate

	for _, tx := range transactions {
		for _, doc := range documents {
			trace := make([]string, 0, len(hardRules))
			confidence := 0.0
			rejected := false

			for _, rule := range hardRules {
				outcome := rule.Evaluate(tx, doc, prefs)
				trace = append(trace, outcome.Trace...)
				if !outcome.Accept {
					rejected = true
					break
				}
				confidence += outcome.ConfidenceDelta
			}

			if rejected {
				continue
			}

			candidates = append(candidates, &Candidate{
				Transaction: tx,
				Document:    doc,
				Confidence:  confidence,
				RuleTrace:   trace,
			})
		}
	}

	return candidates
}
