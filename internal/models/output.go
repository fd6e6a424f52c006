package models

// Classification reasons attached to ambiguous matches.
const (
	// ReasonMultipleStrongCandidates marks a transaction with more than
	// one candidate surviving the candidate threshold.
	ReasonMultipleStrongCandidates = "multiple strong candidates"

	// ReasonBelowAutoMatchThreshold marks a lone surviving candidate whose
	// confidence does not clear the auto-match threshold.
	ReasonBelowAutoMatchThreshold = "confidence below auto-match threshold"
)

// MatchedPair is the final unambiguous result for one transaction. The id
// lists hold a single element each; the list form is reserved for future
// many-to-many matching.
type MatchedPair struct {
	TransactionIDs []string `json:"transaction_ids"`
	DocumentIDs    []string `json:"document_ids"`
	Confidence     float64  `json:"confidence"`
	RuleTrace      []string `json:"rule_trace"`
}

// CandidateDocument is one viable document inside an ambiguous match.
type CandidateDocument struct {
	DocumentID string   `json:"document_id"`
	Confidence float64  `json:"confidence"`
	RuleTrace  []string `json:"rule_trace"`
}

// AmbiguousMatch groups one transaction with every document that survived
// classification for it, when no single definitive match could be made.
type AmbiguousMatch struct {
	TransactionIDs     []string            `json:"transaction_ids"`
	CandidateDocuments []CandidateDocument `json:"candidate_documents"`
	Reason             string              `json:"reason"`
}

// Matches partitions the input id universes. Every transaction id appears
// in exactly one of a matched pair, an ambiguous match, or
// UnmatchedTransactions; every document id not referenced by a surviving
// candidate appears in UnmatchedDocuments.
type Matches struct {
	MatchedPairs          []*MatchedPair    `json:"matched_pairs"`
	AmbiguousMatches      []*AmbiguousMatch `json:"ambiguous_matches"`
	UnmatchedTransactions []string          `json:"unmatched_transactions"`
	UnmatchedDocuments    []string          `json:"unmatched_documents"`
}

// Diagnostics carries audit information about a reconciliation run.
// RulesApplied is the set of rule trace tokens seen across all scored
// candidates, in first-seen order.
type Diagnostics struct {
	RulesApplied []string       `json:"rules_applied"`
	Metrics      map[string]int `json:"metrics"`
	Notes        []string       `json:"notes"`
}

// Metric keys populated in Diagnostics.Metrics.
const (
	MetricTotalTransactions     = "total_transactions"
	MetricTotalDocuments        = "total_documents"
	MetricDefinitiveMatches     = "definitive_matches"
	MetricAmbiguousMatches      = "ambiguous_matches"
	MetricUnmatchedTransactions = "unmatched_transactions"
	MetricUnmatchedDocuments    = "unmatched_documents"

	// Reserved counters, currently always zero. Populating them requires
	// rule-level counting that classification does not perform yet.
	MetricCrossCurrencyAttempts  = "cross_currency_attempts"
	MetricPartialPaymentPatterns = "partial_payment_patterns"
)

// Summary provides aggregate counts for a reconciliation run.
type Summary struct {
	TotalTransactions     int `json:"total_transactions"`
	TotalDocuments        int `json:"total_documents"`
	MatchedPairs          int `json:"matched_pairs"`
	AmbiguousMatches      int `json:"ambiguous_matches"`
	UnmatchedTransactions int `json:"unmatched_transactions"`
	UnmatchedDocuments    int `json:"unmatched_documents"`
}

// ReconciliationOutput is the complete result of one reconciliation run,
// returned as a single value.
type ReconciliationOutput struct {
	Summary     Summary     `json:"summary"`
	Matches     Matches     `json:"matches"`
	Diagnostics Diagnostics `json:"diagnostics"`
}
