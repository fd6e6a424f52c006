// Package models defines the canonical record shapes consumed and produced
// by the reconciliation engine.
//
// Transactions and documents arrive already normalised by an upstream
// collaborator; this package only defines their structure, JSON mapping,
// and basic shape validation. Both record types carry an explicit Metadata
// map holding any fields the normaliser passed through that the engine
// does not interpret.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a normalised bank transaction record.
// It is immutable once produced by the normaliser; the engine only reads it.
type Transaction struct {
	// ID uniquely identifies the transaction. Required.
	ID string

	// Date is the calendar date of the transaction as emitted by the
	// normaliser (ISO form), or empty when absent.
	Date string

	// Amount is the transaction amount, nil when absent.
	Amount *decimal.Decimal

	// Currency is the ISO currency code, empty when absent.
	Currency string

	// Description is the free-text statement description.
	Description string

	// Counterparty is the free-text counterparty name.
	Counterparty string

	// Metadata holds passthrough fields the engine does not interpret.
	Metadata map[string]any
}

// transactionFields lists the JSON keys the engine interprets; everything
// else lands in Metadata.
var transactionFields = map[string]bool{
	"transaction_id": true,
	"date":           true,
	"amount":         true,
	"currency":       true,
	"description":    true,
	"counterparty":   true,
}

// Validate performs basic shape validation on the Transaction
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction id cannot be empty")
	}

	if t.Amount != nil && t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount cannot be negative: %s", t.Amount.String())
	}

	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	amount := "absent"
	if t.Amount != nil {
		amount = t.Amount.String()
	}
	return fmt.Sprintf("Transaction{ID: %s, Amount: %s, Currency: %s, Date: %s}",
		t.ID, amount, t.Currency, t.Date)
}

// UnmarshalJSON implements custom JSON unmarshaling for Transaction.
// Unknown fields are preserved in Metadata rather than discarded.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if t.ID, err = decodeString(raw["transaction_id"]); err != nil {
		return fmt.Errorf("invalid transaction_id: %w", err)
	}
	if t.Date, err = decodeString(raw["date"]); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	if t.Amount, err = decodeOptionalDecimal(raw["amount"]); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if t.Currency, err = decodeString(raw["currency"]); err != nil {
		return fmt.Errorf("invalid currency: %w", err)
	}
	if t.Description, err = decodeString(raw["description"]); err != nil {
		return fmt.Errorf("invalid description: %w", err)
	}
	if t.Counterparty, err = decodeString(raw["counterparty"]); err != nil {
		return fmt.Errorf("invalid counterparty: %w", err)
	}

	t.Metadata = decodeMetadata(raw, transactionFields)
	return nil
}

// MarshalJSON implements custom JSON marshaling for Transaction,
// re-emitting passthrough metadata alongside the interpreted fields.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Metadata)+6)
	for k, v := range t.Metadata {
		out[k] = v
	}

	out["transaction_id"] = t.ID
	if t.Date != "" {
		out["date"] = t.Date
	}
	if t.Amount != nil {
		out["amount"] = t.Amount.String()
	}
	if t.Currency != "" {
		out["currency"] = t.Currency
	}
	if t.Description != "" {
		out["description"] = t.Description
	}
	if t.Counterparty != "" {
		out["counterparty"] = t.Counterparty
	}

	return json.Marshal(out)
}

// Document represents a normalised financial document record such as an
// invoice or a commission line. Immutable input to the engine.
type Document struct {
	// ID uniquely identifies the document. Required.
	ID string

	// Type is the document type emitted by the normaliser
	// (for example "invoice" or "commission_line").
	Type string

	// IssuerName is the free-text name of the issuing party.
	IssuerName string

	// IssueDate is the issue date (ISO form), empty when absent.
	IssueDate string

	// DueDate is the payment due date (ISO form), empty when absent.
	DueDate string

	// TotalAmount is the document total. Required.
	TotalAmount decimal.Decimal

	// Currency is the ISO currency code, empty when absent.
	Currency string

	// PaymentReference is the reference the payer is asked to quote.
	PaymentReference string

	// Status is the document lifecycle status as reported upstream.
	Status string

	// Metadata holds passthrough fields the engine does not interpret.
	Metadata map[string]any
}

var documentFields = map[string]bool{
	"document_id":       true,
	"document_type":     true,
	"issuer_name":       true,
	"issue_date":        true,
	"due_date":          true,
	"total_amount":      true,
	"currency":          true,
	"payment_reference": true,
	"status":            true,
}

// Validate performs basic shape validation on the Document
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("document id cannot be empty")
	}

	if d.TotalAmount.IsNegative() {
		return fmt.Errorf("document total amount cannot be negative: %s", d.TotalAmount.String())
	}

	return nil
}

// String returns a string representation of the Document
func (d *Document) String() string {
	return fmt.Sprintf("Document{ID: %s, Type: %s, Total: %s, Currency: %s}",
		d.ID, d.Type, d.TotalAmount.String(), d.Currency)
}

// UnmarshalJSON implements custom JSON unmarshaling for Document.
// Unknown fields are preserved in Metadata rather than discarded.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if d.ID, err = decodeString(raw["document_id"]); err != nil {
		return fmt.Errorf("invalid document_id: %w", err)
	}
	if d.Type, err = decodeString(raw["document_type"]); err != nil {
		return fmt.Errorf("invalid document_type: %w", err)
	}
	if d.IssuerName, err = decodeString(raw["issuer_name"]); err != nil {
		return fmt.Errorf("invalid issuer_name: %w", err)
	}
	if d.IssueDate, err = decodeString(raw["issue_date"]); err != nil {
		return fmt.Errorf("invalid issue_date: %w", err)
	}
	if d.DueDate, err = decodeString(raw["due_date"]); err != nil {
		return fmt.Errorf("invalid due_date: %w", err)
	}

	total, err := decodeOptionalDecimal(raw["total_amount"])
	if err != nil {
		return fmt.Errorf("invalid total_amount: %w", err)
	}
	if total != nil {
		d.TotalAmount = *total
	} else {
		d.TotalAmount = decimal.Zero
	}

	if d.Currency, err = decodeString(raw["currency"]); err != nil {
		return fmt.Errorf("invalid currency: %w", err)
	}
	if d.PaymentReference, err = decodeString(raw["payment_reference"]); err != nil {
		return fmt.Errorf("invalid payment_reference: %w", err)
	}
	if d.Status, err = decodeString(raw["status"]); err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}

	d.Metadata = decodeMetadata(raw, documentFields)
	return nil
}

// MarshalJSON implements custom JSON marshaling for Document,
// re-emitting passthrough metadata alongside the interpreted fields.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Metadata)+9)
	for k, v := range d.Metadata {
		out[k] = v
	}

	out["document_id"] = d.ID
	out["document_type"] = d.Type
	out["total_amount"] = d.TotalAmount.String()
	if d.IssuerName != "" {
		out["issuer_name"] = d.IssuerName
	}
	if d.IssueDate != "" {
		out["issue_date"] = d.IssueDate
	}
	if d.DueDate != "" {
		out["due_date"] = d.DueDate
	}
	if d.Currency != "" {
		out["currency"] = d.Currency
	}
	if d.PaymentReference != "" {
		out["payment_reference"] = d.PaymentReference
	}
	if d.Status != "" {
		out["status"] = d.Status
	}

	return json.Marshal(out)
}

// dateLayouts lists the date formats accepted from normalised records.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDate attempts to parse a record date string. It reports false for
// empty or unparseable input; rules treat that as "date absent".
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// decodeString decodes an optional JSON string field; null and absent both
// yield the empty string.
func decodeString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// decodeOptionalDecimal decodes an optional JSON number (or numeric string)
// field; null and absent both yield nil.
func decodeOptionalDecimal(raw json.RawMessage) (*decimal.Decimal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// decodeMetadata collects every raw field not claimed by the record schema.
func decodeMetadata(raw map[string]json.RawMessage, known map[string]bool) map[string]any {
	var meta map[string]any
	for key, value := range raw {
		if known[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			continue
		}
		if meta == nil {
			meta = make(map[string]any)
		}
		meta[key] = v
	}
	return meta
}
