// Package reconciler provides the service layer wiring input loading, the
// matching engine, and result reporting together for callers such as the
// CLI.
package reconciler

import (
	"context"
	"time"

	"invoice-reconciliation-service/internal/loader"
	"invoice-reconciliation-service/internal/matcher"
	"invoice-reconciliation-service/internal/models"
	recerrors "invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"
)

// Service runs complete reconciliation operations with logging around the
// pure matching pipeline.
type Service struct {
	engine *matcher.MatchingEngine
	logger logger.Logger
}

// NewService creates a reconciliation service for the given preferences.
// Nil preferences select the documented defaults; invalid preferences are
// rejected here so the pipeline never sees them.
func NewService(prefs *models.MatchingPreferences) (*Service, error) {
	if prefs != nil {
		if err := prefs.Validate(); err != nil {
			return nil, recerrors.ConfigurationError(recerrors.CodeInvalidConfig,
				"matching preferences", err).
				WithSuggestion("Check the preference thresholds and tolerances")
		}
	}

	return &Service{
		engine: matcher.NewMatchingEngine(prefs),
		logger: logger.GetGlobalLogger().WithComponent("reconciliation_service"),
	}, nil
}

// Preferences returns a copy of the service's matching preferences.
func (s *Service) Preferences() *models.MatchingPreferences {
	return s.engine.Preferences()
}

// Reconcile runs the pipeline over the given records. The context is
// checked once at the boundary; the pipeline itself has no cancellation
// points.
func (s *Service) Reconcile(ctx context.Context, transactions []*models.Transaction, documents []*models.Document) (*models.ReconciliationOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, recerrors.ReconciliationError(recerrors.CodeProcessingError, "reconcile", err)
	}

	s.logger.WithFields(logger.Fields{
		"transactions": len(transactions),
		"documents":    len(documents),
	}).Info("Starting reconciliation")

	start := time.Now()
	output := s.engine.Reconcile(transactions, documents)

	s.logger.WithFields(logger.Fields{
		"matched_pairs":          output.Summary.MatchedPairs,
		"ambiguous_matches":      output.Summary.AmbiguousMatches,
		"unmatched_transactions": output.Summary.UnmatchedTransactions,
		"unmatched_documents":    output.Summary.UnmatchedDocuments,
		"elapsed":                time.Since(start),
	}).Info("Reconciliation completed")

	return output, nil
}

// ReconcileInput runs the pipeline over a loaded input. Preferences
// embedded in the input override the service's own.
func (s *Service) ReconcileInput(ctx context.Context, input *loader.ReconciliationInput) (*models.ReconciliationOutput, error) {
	if input == nil {
		return nil, recerrors.ValidationError(recerrors.CodeMissingField, "input", nil, nil).
			WithSuggestion("Provide a loaded reconciliation input")
	}

	if input.Preferences != nil {
		s.logger.WithField("preferences", input.Preferences.String()).
			Debug("Using preferences embedded in input")
		s.engine = matcher.NewMatchingEngine(input.Preferences)
	}

	return s.Reconcile(ctx, input.Transactions, input.Documents)
}
