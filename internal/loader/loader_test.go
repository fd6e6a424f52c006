package loader

import (
	"os"
	"path/filepath"
	"testing"

	recerrors "invoice-reconciliation-service/pkg/errors"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestLoadInput_NestedEnvelope(t *testing.T) {
	path := writeTestFile(t, "input.json", `{
		"bank_side": {
			"transactions": [
				{"transaction_id": "TX001", "amount": "100.00", "currency": "EUR"}
			]
		},
		"document_side": {
			"documents": [
				{"document_id": "INV-001", "document_type": "invoice", "total_amount": "100.00"}
			]
		},
		"matching_prefs": {
			"date_tolerance_days": 3,
			"allow_partial_payments": true
		}
	}`)

	input, err := LoadInput(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(input.Transactions) != 1 || input.Transactions[0].ID != "TX001" {
		t.Errorf("Unexpected transactions: %v", input.Transactions)
	}
	if len(input.Documents) != 1 || input.Documents[0].ID != "INV-001" {
		t.Errorf("Unexpected documents: %v", input.Documents)
	}
	if input.Preferences == nil {
		t.Fatal("Expected preferences to be decoded")
	}
	if input.Preferences.DateToleranceDays != 3 || !input.Preferences.AllowPartialPayments {
		t.Errorf("Unexpected preferences: %+v", input.Preferences)
	}
}

func TestLoadInput_FlatForm(t *testing.T) {
	path := writeTestFile(t, "input.json", `{
		"transactions": [{"transaction_id": "TX001"}],
		"documents": [{"document_id": "INV-001", "total_amount": "10"}],
		"preferences": {"min_confidence_candidate": 0.3}
	}`)

	input, err := LoadInput(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(input.Transactions) != 1 || len(input.Documents) != 1 {
		t.Fatalf("Unexpected record counts: %d/%d", len(input.Transactions), len(input.Documents))
	}
	if input.Preferences == nil || input.Preferences.MinConfidenceCandidate != 0.3 {
		t.Errorf("Unexpected preferences: %+v", input.Preferences)
	}
}

func TestLoadInput_MissingFile(t *testing.T) {
	_, err := LoadInput(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !recerrors.IsCategory(err, recerrors.CategoryFile) {
		t.Errorf("Expected file error, got %v", err)
	}
}

func TestLoadInput_MalformedJSON(t *testing.T) {
	path := writeTestFile(t, "input.json", `{"transactions": [`)

	_, err := LoadInput(path)
	if err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
	if !recerrors.IsCategory(err, recerrors.CategoryParse) {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestLoadInput_DuplicateTransactionID(t *testing.T) {
	path := writeTestFile(t, "input.json", `{
		"transactions": [
			{"transaction_id": "TX001"},
			{"transaction_id": "TX001"}
		],
		"documents": []
	}`)

	_, err := LoadInput(path)
	if err == nil {
		t.Fatal("Expected error for duplicate transaction id")
	}

	reconcilerErr, ok := recerrors.AsReconcilerError(err)
	if !ok {
		t.Fatalf("Expected ReconcilerError, got %T", err)
	}
	if reconcilerErr.Code != recerrors.CodeDuplicateID {
		t.Errorf("Expected code %s, got %s", recerrors.CodeDuplicateID, reconcilerErr.Code)
	}
}

func TestLoadInput_InvalidPreferences(t *testing.T) {
	path := writeTestFile(t, "input.json", `{
		"transactions": [],
		"documents": [],
		"preferences": {"min_confidence_candidate": 2.0}
	}`)

	_, err := LoadInput(path)
	if err == nil {
		t.Fatal("Expected error for out-of-range preferences")
	}
	if !recerrors.IsCategory(err, recerrors.CategoryValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestLoadTransactions(t *testing.T) {
	path := writeTestFile(t, "transactions.json", `[
		{"transaction_id": "TX001", "amount": "100.00"},
		{"transaction_id": "TX002", "amount": 50}
	]`)

	transactions, err := LoadTransactions(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(transactions))
	}
}

func TestLoadTransactions_EmptyID(t *testing.T) {
	path := writeTestFile(t, "transactions.json", `[{"transaction_id": ""}]`)

	_, err := LoadTransactions(path)
	if err == nil {
		t.Fatal("Expected error for empty transaction id")
	}
	if !recerrors.IsCategory(err, recerrors.CategoryValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestLoadDocuments(t *testing.T) {
	path := writeTestFile(t, "documents.json", `[
		{"document_id": "INV-001", "document_type": "invoice", "total_amount": "250.00"}
	]`)

	documents, err := LoadDocuments(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(documents) != 1 || documents[0].Type != "invoice" {
		t.Errorf("Unexpected documents: %v", documents)
	}
}

func TestLoadDocuments_DuplicateID(t *testing.T) {
	path := writeTestFile(t, "documents.json", `[
		{"document_id": "INV-001", "total_amount": "1"},
		{"document_id": "INV-001", "total_amount": "2"}
	]`)

	_, err := LoadDocuments(path)
	if err == nil {
		t.Fatal("Expected error for duplicate document id")
	}
}

func TestLoadPreferences(t *testing.T) {
	path := writeTestFile(t, "prefs.json", `{
		"date_tolerance_days": 2,
		"min_confidence_auto_match": 0.8,
		"allow_cross_currency": true,
		"unknown_future_field": "ignored"
	}`)

	prefs, err := LoadPreferences(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if prefs.DateToleranceDays != 2 {
		t.Errorf("Expected tolerance 2, got %d", prefs.DateToleranceDays)
	}
	if prefs.AutoMatchThreshold() != 0.8 {
		t.Errorf("Expected auto-match threshold 0.8, got %f", prefs.AutoMatchThreshold())
	}
	if !prefs.AllowCrossCurrency {
		t.Error("Expected cross-currency to be allowed")
	}
}

func TestLoadPreferences_OutOfRange(t *testing.T) {
	path := writeTestFile(t, "prefs.json", `{"date_tolerance_days": -1}`)

	_, err := LoadPreferences(path)
	if err == nil {
		t.Fatal("Expected error for negative tolerance")
	}
}
