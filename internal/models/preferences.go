package models

import "fmt"

// MatchingPreferences holds the configurable options recognised by the
// matching pipeline. Every field is optional on the wire; absence implies
// the documented default. Unrecognised preference fields are ignored by
// the JSON decoder.
type MatchingPreferences struct {
	// DateToleranceDays is the acceptance window length, in days after the
	// issue date, used when a document has no due date. Default 0.
	DateToleranceDays int `json:"date_tolerance_days"`

	// PreIssueGraceDays is the number of days a transaction may precede a
	// document's issue date. Default 0.
	PreIssueGraceDays int `json:"pre_issue_grace_days"`

	// PostDueGraceDays is the number of days a transaction may follow a
	// document's due date. Default 0.
	PostDueGraceDays int `json:"post_due_grace_days"`

	// MinConfidenceAutoMatch is the confidence a lone candidate must reach
	// to become a definitive match. Nil means the default of 1.0; use
	// AutoMatchThreshold to read the effective value.
	MinConfidenceAutoMatch *float64 `json:"min_confidence_auto_match,omitempty"`

	// MinConfidenceCandidate is the confidence below which a scored
	// candidate is discarded during classification. Default 0.
	MinConfidenceCandidate float64 `json:"min_confidence_candidate"`

	// AllowCrossCurrency permits pairs whose currencies differ, at a
	// confidence penalty. Default false.
	AllowCrossCurrency bool `json:"allow_cross_currency"`

	// AllowPartialPayments suppresses the confidence penalty for
	// transactions smaller than the document total. Default false.
	AllowPartialPayments bool `json:"allow_partial_payments"`
}

// DefaultMatchingPreferences returns preferences with every option at its
// documented default.
func DefaultMatchingPreferences() *MatchingPreferences {
	return &MatchingPreferences{}
}

// AutoMatchThreshold returns the effective auto-match confidence
// threshold, applying the default of 1.0 when unset.
func (p *MatchingPreferences) AutoMatchThreshold() float64 {
	if p.MinConfidenceAutoMatch == nil {
		return 1.0
	}
	return *p.MinConfidenceAutoMatch
}

// Validate checks that the preferences are internally consistent. The
// pipeline itself never validates; callers are expected to do this at the
// boundary before invoking it.
func (p *MatchingPreferences) Validate() error {
	if p.DateToleranceDays < 0 {
		return fmt.Errorf("date tolerance days cannot be negative: %d", p.DateToleranceDays)
	}

	if p.PreIssueGraceDays < 0 {
		return fmt.Errorf("pre-issue grace days cannot be negative: %d", p.PreIssueGraceDays)
	}

	if p.PostDueGraceDays < 0 {
		return fmt.Errorf("post-due grace days cannot be negative: %d", p.PostDueGraceDays)
	}

	if p.MinConfidenceAutoMatch != nil {
		if v := *p.MinConfidenceAutoMatch; v < 0.0 || v > 1.0 {
			return fmt.Errorf("auto-match confidence threshold must be between 0.0 and 1.0: %f", v)
		}
	}

	if p.MinConfidenceCandidate < 0.0 || p.MinConfidenceCandidate > 1.0 {
		return fmt.Errorf("candidate confidence threshold must be between 0.0 and 1.0: %f", p.MinConfidenceCandidate)
	}

	return nil
}

// Clone creates a deep copy of the matching preferences
func (p *MatchingPreferences) Clone() *MatchingPreferences {
	if p == nil {
		return nil
	}

	clone := *p
	if p.MinConfidenceAutoMatch != nil {
		v := *p.MinConfidenceAutoMatch
		clone.MinConfidenceAutoMatch = &v
	}
	return &clone
}

// String returns a human-readable description of the preferences
func (p *MatchingPreferences) String() string {
	return fmt.Sprintf("MatchingPreferences{DateTolerance: %d days, PreIssueGrace: %d, PostDueGrace: %d, AutoMatch: %.2f, Candidate: %.2f, CrossCurrency: %t, PartialPayments: %t}",
		p.DateToleranceDays, p.PreIssueGraceDays, p.PostDueGraceDays,
		p.AutoMatchThreshold(), p.MinConfidenceCandidate,
		p.AllowCrossCurrency, p.AllowPartialPayments)
}
