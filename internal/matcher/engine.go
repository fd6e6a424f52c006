// Package matcher implements the three-stage matching pipeline at the core
// of the reconciliation service.
//
// The pipeline stages are:
//  1. Candidate generation: hard filters over the full transaction/document
//     cross-product (GenerateCandidates)
//  2. Candidate scoring: weighted soft rules adjusting confidence within
//     [0, 1] (ScoreCandidates)
//  3. Result classification: threshold-based decisions partitioning the
//     input id universes (ClassifyResults)
//
// Each stage is a pure function over immutable inputs; the MatchingEngine
// merely wires them together and attaches a summary. Rules live in the
// rules package and know nothing about the stages.
//
// Example usage:
//
//	prefs := models.DefaultMatchingPreferences()
//	prefs.DateToleranceDays = 3
//
//	engine := matcher.NewMatchingEngine(prefs)
//	output := engine.Reconcile(transactions, documents)
package matcher

import (
	"invoice-reconciliation-service/internal/models"
)

// MatchingEngine runs the full reconciliation pipeline under a fixed set
// of matching preferences. It holds no per-run state, so a single engine
// may be reused across invocations.
type MatchingEngine struct {
	prefs *models.MatchingPreferences
}

// NewMatchingEngine creates an engine with the given preferences. Nil
// preferences select the documented defaults. The preferences are cloned;
// later mutation by the caller does not affect the engine.
func NewMatchingEngine(prefs *models.MatchingPreferences) *MatchingEngine {
	if prefs == nil {
		prefs = models.DefaultMatchingPreferences()
	}
	return &MatchingEngine{prefs: prefs.Clone()}
}

// Preferences returns a copy of the engine's matching preferences.
func (me *MatchingEngine) Preferences() *models.MatchingPreferences {
	return me.prefs.Clone()
}

// Reconcile runs generation, scoring, and classification over the inputs
// and attaches summary counts. It is total: degenerate input (including
// empty lists) produces a well-formed output, never an error.
func (me *MatchingEngine) Reconcile(transactions []*models.Transaction, documents []*models.Document) *models.ReconciliationOutput {
	candidates := GenerateCandidates(transactions, documents, me.prefs)
	scored := ScoreCandidates(candidates, me.prefs)

	txIDs := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		txIDs = append(txIDs, tx.ID)
	}
	docIDs := make([]string, 0, len(documents))
	for _, doc := range documents {
		docIDs = append(docIDs, doc.ID)
	}

	output := ClassifyResults(scored, me.prefs, txIDs, docIDs)

	output.Summary = models.Summary{
		TotalTransactions:     len(transactions),
		TotalDocuments:        len(documents),
		MatchedPairs:          len(output.Matches.MatchedPairs),
		AmbiguousMatches:      len(output.Matches.AmbiguousMatches),
		UnmatchedTransactions: len(output.Matches.UnmatchedTransactions),
		UnmatchedDocuments:    len(output.Matches.UnmatchedDocuments),
	}

	return output
}
