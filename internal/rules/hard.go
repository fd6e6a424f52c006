package rules

import (
	"time"

	"invoice-reconciliation-service/internal/models"
)

// AmountStrict accepts a pair only when the transaction amount exactly
// equals the document total. No tolerance and no rounding are applied;
// an absent transaction amount cannot equal anything and rejects the pair.
type AmountStrict struct{}

// Name returns the rule's trace token.
func (AmountStrict) Name() string { return TraceAmountStrict }

// Evaluate applies the rule to one pair.
func (AmountStrict) Evaluate(tx *models.Transaction, doc *models.Document, prefs *models.MatchingPreferences) Outcome {
	accept := tx.Amount != nil && tx.Amount.Equal(doc.TotalAmount)

	delta := 0.0
	if accept {
		delta = amountMatchBoost
	}

	return Outcome{
		Accept:          accept,
		ConfidenceDelta: delta,
		Trace:           []string{TraceAmountStrict},
	}
}

// CurrencyMatch rejects pairs whose currencies are both present and
// differ, unless cross-currency matching is allowed, in which case the
// pair survives with a confidence penalty. A missing currency on either
// side means the rule does not apply.
type CurrencyMatch struct{}

// Name returns the rule's trace token.
func (CurrencyMatch) Name() string { return TraceCurrencyMatch }

// Evaluate applies the rule to one pair.
func (CurrencyMatch) Evaluate(tx *models.Transaction, doc *models.Document, prefs *models.MatchingPreferences) Outcome {
	if tx.Currency != "" && doc.Currency != "" && tx.Currency != doc.Currency {
		// The penalty is recorded on the reject path too, so the trace of
		// a discarded pair stays faithful for diagnostics.
		return Outcome{
			Accept:          prefs.AllowCrossCurrency,
			ConfidenceDelta: currencyPenalty,
			Trace:           []string{TraceCurrencyMatch},
		}
	}

	return Outcome{
		Accept: true,
		Trace:  []string{TraceCurrencyMatch},
	}
}

// DateWindow accepts a pair when the transaction date falls inside the
// document's acceptance window:
//
//	start = issue_date - pre_issue_grace_days  (unbounded without an issue date)
//	end   = due_date + post_due_grace_days     when a due date is present,
//	        issue_date + date_tolerance_days   when only an issue date is present,
//	        unbounded otherwise.
//
// Both bounds are inclusive. A transaction date that is absent or does not
// parse rejects the pair.
type DateWindow struct{}

// Name returns the rule's trace token.
func (DateWindow) Name() string { return TraceDateWindow }

// Evaluate applies the rule to one pair.
func (DateWindow) Evaluate(tx *models.Transaction, doc *models.Document, prefs *models.MatchingPreferences) Outcome {
	issueDate, hasIssue := models.ParseDate(doc.IssueDate)
	dueDate, hasDue := models.ParseDate(doc.DueDate)
	txDate, hasTxDate := models.ParseDate(tx.Date)

	var start, end *time.Time
	if hasIssue {
		s := issueDate.AddDate(0, 0, -prefs.PreIssueGraceDays)
		start = &s
	}
	if hasDue {
		e := dueDate.AddDate(0, 0, prefs.PostDueGraceDays)
		end = &e
	} else if hasIssue {
		e := issueDate.AddDate(0, 0, prefs.DateToleranceDays)
		end = &e
	}

	accept := hasTxDate &&
		(start == nil || !txDate.Before(*start)) &&
		(end == nil || !txDate.After(*end))

	delta := dateWindowPenalty
	if accept {
		delta = dateWindowBoost
	}

	return Outcome{
		Accept:          accept,
		ConfidenceDelta: delta,
		Trace:           []string{TraceDateWindow},
	}
}
