package reconciler

import (
	"context"
	"testing"

	"invoice-reconciliation-service/internal/loader"
	"invoice-reconciliation-service/internal/models"
	recerrors "invoice-reconciliation-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func createTestRecords() ([]*models.Transaction, []*models.Document) {
	amount := decimal.RequireFromString("1250.00")
	transactions := []*models.Transaction{
		{
			ID:           "TX001",
			Date:         "2024-01-15",
			Amount:       &amount,
			Currency:     "EUR",
			Description:  "Payment INV-2024-001",
			Counterparty: "Acme GmbH",
		},
	}
	documents := []*models.Document{
		{
			ID:               "INV-001",
			Type:             "invoice",
			IssuerName:       "Acme GmbH",
			IssueDate:        "2024-01-10",
			DueDate:          "2024-01-31",
			TotalAmount:      decimal.RequireFromString("1250.00"),
			Currency:         "EUR",
			PaymentReference: "INV-2024-001",
		},
	}
	return transactions, documents
}

func TestNewService(t *testing.T) {
	service, err := NewService(nil)
	if err != nil {
		t.Fatalf("Unexpected error for nil preferences: %v", err)
	}
	if service.Preferences().AutoMatchThreshold() != 1.0 {
		t.Error("Expected default preferences")
	}
}

func TestNewService_InvalidPreferences(t *testing.T) {
	prefs := &models.MatchingPreferences{DateToleranceDays: -1}

	_, err := NewService(prefs)
	if err == nil {
		t.Fatal("Expected error for invalid preferences")
	}
	if !recerrors.IsCategory(err, recerrors.CategoryConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestService_Reconcile(t *testing.T) {
	service, err := NewService(nil)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	transactions, documents := createTestRecords()
	output, err := service.Reconcile(context.Background(), transactions, documents)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Summary.MatchedPairs != 1 {
		t.Errorf("Expected 1 matched pair, got %d", output.Summary.MatchedPairs)
	}
}

func TestService_ReconcileCancelledContext(t *testing.T) {
	service, err := NewService(nil)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transactions, documents := createTestRecords()
	_, err = service.Reconcile(ctx, transactions, documents)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if !recerrors.IsCategory(err, recerrors.CategoryReconciliation) {
		t.Errorf("Expected reconciliation error, got %v", err)
	}
}

func TestService_ReconcileInput(t *testing.T) {
	service, err := NewService(nil)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	transactions, documents := createTestRecords()
	threshold := 0.5
	input := &loader.ReconciliationInput{
		Transactions: transactions,
		Documents:    documents,
		Preferences:  &models.MatchingPreferences{MinConfidenceAutoMatch: &threshold},
	}

	output, err := service.ReconcileInput(context.Background(), input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Summary.MatchedPairs != 1 {
		t.Errorf("Expected 1 matched pair, got %d", output.Summary.MatchedPairs)
	}

	// Embedded preferences replace the service's own
	if service.Preferences().AutoMatchThreshold() != 0.5 {
		t.Errorf("Expected threshold 0.5 after input override, got %f",
			service.Preferences().AutoMatchThreshold())
	}
}

func TestService_ReconcileInputNil(t *testing.T) {
	service, err := NewService(nil)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	_, err = service.ReconcileInput(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected error for nil input")
	}
	if !recerrors.IsCategory(err, recerrors.CategoryValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
