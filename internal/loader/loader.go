// Package loader reads already-normalised reconciliation input from JSON
// files into the model types.
//
// The loader is a thin boundary adapter: it decodes and shape-checks, but
// performs no normalisation of its own. CSV parsing, currency/date
// heuristics, and diagnostic flagging all belong to the upstream
// normaliser that produces these files.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"invoice-reconciliation-service/internal/models"
	recerrors "invoice-reconciliation-service/pkg/errors"
)

// ReconciliationInput is the fully decoded input for one reconciliation
// run.
type ReconciliationInput struct {
	Transactions []*models.Transaction
	Documents    []*models.Document
	Preferences  *models.MatchingPreferences
}

// inputEnvelope accepts both the nested envelope the upstream agents emit
// and a flat form with top-level record arrays.
type inputEnvelope struct {
	BankSide *struct {
		Transactions []*models.Transaction `json:"transactions"`
	} `json:"bank_side"`
	DocumentSide *struct {
		Documents []*models.Document `json:"documents"`
	} `json:"document_side"`
	MatchingPrefs *models.MatchingPreferences `json:"matching_prefs"`

	Transactions []*models.Transaction       `json:"transactions"`
	Documents    []*models.Document          `json:"documents"`
	Preferences  *models.MatchingPreferences `json:"preferences"`
}

// LoadInput reads a combined input file holding transactions, documents,
// and optional matching preferences.
func LoadInput(path string) (*ReconciliationInput, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var envelope inputEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, recerrors.ParseError(recerrors.CodeInvalidFormat, path, err)
	}

	input := &ReconciliationInput{
		Transactions: envelope.Transactions,
		Documents:    envelope.Documents,
		Preferences:  envelope.Preferences,
	}
	if envelope.BankSide != nil {
		input.Transactions = envelope.BankSide.Transactions
	}
	if envelope.DocumentSide != nil {
		input.Documents = envelope.DocumentSide.Documents
	}
	if envelope.MatchingPrefs != nil {
		input.Preferences = envelope.MatchingPrefs
	}

	if err := validateTransactions(input.Transactions, path); err != nil {
		return nil, err
	}
	if err := validateDocuments(input.Documents, path); err != nil {
		return nil, err
	}
	if input.Preferences != nil {
		if err := input.Preferences.Validate(); err != nil {
			return nil, recerrors.ValidationError(recerrors.CodeOutOfRange, "matching_prefs", nil, err)
		}
	}

	return input, nil
}

// LoadTransactions reads a JSON array of normalised transactions.
func LoadTransactions(path string) ([]*models.Transaction, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var transactions []*models.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, recerrors.ParseError(recerrors.CodeInvalidFormat, path, err)
	}

	if err := validateTransactions(transactions, path); err != nil {
		return nil, err
	}
	return transactions, nil
}

// LoadDocuments reads a JSON array of normalised documents.
func LoadDocuments(path string) ([]*models.Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var documents []*models.Document
	if err := json.Unmarshal(data, &documents); err != nil {
		return nil, recerrors.ParseError(recerrors.CodeInvalidFormat, path, err)
	}

	if err := validateDocuments(documents, path); err != nil {
		return nil, err
	}
	return documents, nil
}

// LoadPreferences reads a JSON matching preferences object. Unrecognised
// fields are ignored.
func LoadPreferences(path string) (*models.MatchingPreferences, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	prefs := models.DefaultMatchingPreferences()
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, recerrors.ParseError(recerrors.CodeInvalidFormat, path, err)
	}

	if err := prefs.Validate(); err != nil {
		return nil, recerrors.ValidationError(recerrors.CodeOutOfRange, "preferences", nil, err)
	}
	return prefs, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, recerrors.FileError(recerrors.CodeFileNotFound, path, err).
				WithSuggestion("Check the file path and try again")
		}
		if os.IsPermission(err) {
			return nil, recerrors.FileError(recerrors.CodeFilePermission, path, err)
		}
		return nil, recerrors.FileError(recerrors.CodeInvalidFormat, path, err)
	}
	return data, nil
}

func validateTransactions(transactions []*models.Transaction, source string) error {
	seen := make(map[string]bool, len(transactions))
	for i, tx := range transactions {
		if tx == nil {
			return recerrors.ValidationError(recerrors.CodeInvalidData,
				fmt.Sprintf("transactions[%d]", i), nil, fmt.Errorf("record is null")).
				WithContext("source", source)
		}
		if err := tx.Validate(); err != nil {
			return recerrors.ValidationError(recerrors.CodeInvalidData,
				fmt.Sprintf("transactions[%d]", i), tx.ID, err).
				WithContext("source", source)
		}
		if seen[tx.ID] {
			return recerrors.ValidationError(recerrors.CodeDuplicateID,
				fmt.Sprintf("transactions[%d]", i), tx.ID, nil).
				WithSuggestion("Transaction ids must be unique; deduplicate upstream")
		}
		seen[tx.ID] = true
	}
	return nil
}

func validateDocuments(documents []*models.Document, source string) error {
	seen := make(map[string]bool, len(documents))
	for i, doc := range documents {
		if doc == nil {
			return recerrors.ValidationError(recerrors.CodeInvalidData,
				fmt.Sprintf("documents[%d]", i), nil, fmt.Errorf("record is null")).
				WithContext("source", source)
		}
		if err := doc.Validate(); err != nil {
			return recerrors.ValidationError(recerrors.CodeInvalidData,
				fmt.Sprintf("documents[%d]", i), doc.ID, err).
				WithContext("source", source)
		}
		if seen[doc.ID] {
			return recerrors.ValidationError(recerrors.CodeDuplicateID,
				fmt.Sprintf("documents[%d]", i), doc.ID, nil).
				WithSuggestion("Document ids must be unique; deduplicate upstream")
		}
		seen[doc.ID] = true
	}
	return nil
}
