package matcher

import (
	"sort"

	"invoice-reconciliation-service/internal/models"
)

// ClassifyResults runs the classification stage over scored candidates.
//
// Candidates are grouped by transaction id. Within each group, candidates
// below the candidate confidence threshold are dropped and the remainder
// sorted descending by confidence, enumeration order breaking ties. A lone
// survivor at or above the auto-match threshold becomes a MatchedPair;
// any other non-empty group becomes one AmbiguousMatch listing every
// survivor. Transactions whose groups empty out are resolved from the full
// id universes afterwards, along with documents never referenced by a
// surviving candidate.
//
// The used-id accumulators are plain local maps threaded through the loop;
// nothing here touches shared state.
func ClassifyResults(candidates []*Candidate, prefs *models.MatchingPreferences, allTxIDs, allDocIDs []string) *models.ReconciliationOutput {
	if prefs == nil {
		prefs = models.DefaultMatchingPreferences()
	}

	byTransaction := make(map[string][]*Candidate)
	var txOrder []string
	for _, candidate := range candidates {
		id := candidate.Transaction.ID
		if _, seen := byTransaction[id]; !seen {
			txOrder = append(txOrder, id)
		}
		byTransaction[id] = append(byTransaction[id], candidate)
	}

	usedTransactions := make(map[string]bool)
	usedDocuments := make(map[string]bool)

	matchedPairs := make([]*models.MatchedPair, 0)
	ambiguousMatches := make([]*models.AmbiguousMatch, 0)

	for _, txID := range txOrder {
		survivors := make([]*Candidate, 0, len(byTransaction[txID]))
		for _, candidate := range byTransaction[txID] {
			if candidate.Confidence >= prefs.MinConfidenceCandidate {
				survivors = append(survivors, candidate)
			}
		}
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].Confidence > survivors[j].Confidence
		})

		if len(survivors) == 0 {
			// Resolved later from the id universe as unmatched.
			continue
		}

		top := survivors[0]
		if top.Confidence >= prefs.AutoMatchThreshold() && len(survivors) == 1 {
			matchedPairs = append(matchedPairs, &models.MatchedPair{
				TransactionIDs: []string{top.Transaction.ID},
				DocumentIDs:    []string{top.Document.ID},
				Confidence:     top.Confidence,
				RuleTrace:      top.RuleTrace,
			})
			usedTransactions[top.Transaction.ID] = true
			usedDocuments[top.Document.ID] = true
			continue
		}

		candidateDocs := make([]models.CandidateDocument, 0, len(survivors))
		for _, candidate := range survivors {
			candidateDocs = append(candidateDocs, models.CandidateDocument{
				DocumentID: candidate.Document.ID,
				Confidence: candidate.Confidence,
				RuleTrace:  candidate.RuleTrace,
			})
			usedDocuments[candidate.Document.ID] = true
		}

		reason := models.ReasonBelowAutoMatchThreshold
		if len(survivors) > 1 {
			reason = models.ReasonMultipleStrongCandidates
		}

		ambiguousMatches = append(ambiguousMatches, &models.AmbiguousMatch{
			TransactionIDs:     []string{txID},
			CandidateDocuments: candidateDocs,
			Reason:             reason,
		})
		usedTransactions[txID] = true
	}

	unmatchedTransactions := make([]string, 0)
	for _, id := range allTxIDs {
		if !usedTransactions[id] {
			unmatchedTransactions = append(unmatchedTransactions, id)
		}
	}

	unmatchedDocuments := make([]string, 0)
	for _, id := range allDocIDs {
		if !usedDocuments[id] {
			unmatchedDocuments = append(unmatchedDocuments, id)
		}
	}

	return &models.ReconciliationOutput{
		Matches: models.Matches{
			MatchedPairs:          matchedPairs,
			AmbiguousMatches:      ambiguousMatches,
			UnmatchedTransactions: unmatchedTransactions,
			UnmatchedDocuments:    unmatchedDocuments,
		},
		Diagnostics: models.Diagnostics{
			RulesApplied: collectRulesApplied(candidates),
			Metrics: map[string]int{
				models.MetricTotalTransactions:     len(allTxIDs),
				models.MetricTotalDocuments:        len(allDocIDs),
				models.MetricDefinitiveMatches:     len(matchedPairs),
				models.MetricAmbiguousMatches:      len(ambiguousMatches),
				models.MetricUnmatchedTransactions: len(unmatchedTransactions),
				models.MetricUnmatchedDocuments:    len(unmatchedDocuments),
				models.MetricCrossCurrencyAttempts:  0,
				models.MetricPartialPaymentPatterns: 0,
			},
			Notes: []string{},
		},
	}
}

// collectRulesApplied gathers the distinct trace tokens across all scored
// candidates, preserving first-seen order.
func collectRulesApplied(candidates []*Candidate) []string {
	seen := make(map[string]bool)
	applied := make([]string, 0)

	for _, candidate := range candidates {
		for _, token := range candidate.RuleTrace {
			if !seen[token] {
				seen[token] = true
				applied = append(applied, token)
			}
		}
	}

	return applied
}
