package matcher

import (
	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/rules"
)

// ScoreCandidates runs the scoring stage. Each candidate is evaluated
// against the soft rules in their fixed order; confidence is updated via
// ApplyDelta after every rule, so it stays within [0, 1], and the trace is
// extended regardless of the delta's sign.
//
// Soft rules never remove a candidate: a reject-style outcome here (the
// partial-payment penalty) only depresses confidence, leaving the final
// decision to the classification thresholds. The input list is not
// mutated; the result has the same cardinality and order.
func ScoreCandidates(candidates []*Candidate, prefs *models.MatchingPreferences) []*Candidate {
	if prefs == nil {
		prefs = models.DefaultMatchingPreferences()
	}

	softRules := rules.SoftRules()
	scored := make([]*Candidate, 0, len(candidates))

	for _, candidate := range candidates {
		trace := make([]string, len(candidate.RuleTrace), len(candidate.RuleTrace)+len(softRules))
		copy(trace, candidate.RuleTrace)
		confidence := candidate.Confidence

		for _, rule := range softRules {
			outcome := rule.Evaluate(candidate.Transaction, candidate.Document, prefs)
			trace = append(trace, outcome.Trace...)
			confidence = ApplyDelta(confidence, outcome.ConfidenceDelta)
		}

		scored = append(scored, &Candidate{
			Transaction: candidate.Transaction,
			Document:    candidate.Document,
			Confidence:  confidence,
			RuleTrace:   trace,
		})
	}

	return scored
}
