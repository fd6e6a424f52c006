// Package rules implements the composable matching rules evaluated by the
// reconciliation pipeline.
//
// Every rule is a pure function over one transaction/document pair and the
// matching preferences. Rules never mutate their inputs and never fail:
// missing or unparseable fields resolve to a defined outcome per rule
// rather than an error. This uniform contract lets the pipeline stages
// treat hard and soft rules identically and lets new rules be added
// without touching stage code.
//
// Hard rules participate in candidate generation; a rejection there
// removes the pair permanently. Soft rules participate in scoring; they
// only move confidence.
package rules

import "invoice-reconciliation-service/internal/models"

// Rule trace tokens, recorded in candidate traces in evaluation order.
const (
	TraceAmountStrict    = "AMOUNT_STRICT"
	TraceCurrencyMatch   = "CURRENCY_MATCH"
	TraceDateWindow      = "DATE_WINDOW"
	TraceNameSimilarity  = "NAME_SIMILARITY"
	TraceRefMatch        = "REF_MATCH"
	TracePartialPayments = "PARTIAL_PAYMENTS"
)

// Confidence deltas contributed by the rules.
const (
	amountMatchBoost    = 0.5
	currencyPenalty     = -0.5
	dateWindowBoost     = 0.3
	dateWindowPenalty   = -0.5
	nameOverlapBoost    = 0.1
	refMatchBoost       = 0.5
	partialPenalty      = -0.5
)

// Outcome is the transient result of evaluating one rule against one
// transaction/document pair.
type Outcome struct {
	// Accept reports whether the pair survives this rule. Only candidate
	// generation acts on it; the scoring stage records it but never drops
	// a candidate.
	Accept bool

	// ConfidenceDelta is this rule's signed confidence contribution.
	ConfidenceDelta float64

	// Trace lists the rule-name tokens to append to the pair's audit
	// trail.
	Trace []string
}

// Rule evaluates a transaction/document pair against the matching
// preferences. Implementations must be pure and total.
type Rule interface {
	// Name returns the rule's trace token.
	Name() string

	// Evaluate applies the rule to one pair.
	Evaluate(tx *models.Transaction, doc *models.Document, prefs *models.MatchingPreferences) Outcome
}

// HardRules returns the hard filters in their fixed generation order.
// Candidate generation short-circuits on the first rejection.
func HardRules() []Rule {
	return []Rule{
		AmountStrict{},
		CurrencyMatch{},
		DateWindow{},
	}
}

// SoftRules returns the scoring rules in their fixed evaluation order.
func SoftRules() []Rule {
	return []Rule{
		NameSimilarity{},
		RefMatch{},
		PartialPayments{},
	}
}
