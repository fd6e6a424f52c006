// Package reporter renders reconciliation output for human and machine
// consumption.
//
// Supported output formats:
//   - Console: human-readable summary for terminal display
//   - JSON: the full ReconciliationOutput structure, indented
//   - CSV: one row per match, ambiguous candidate, or unmatched id
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"invoice-reconciliation-service/internal/models"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	// Output format
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeMatchedPairs     bool `json:"include_matched_pairs"`
	IncludeAmbiguousMatches bool `json:"include_ambiguous_matches"`
	IncludeUnmatched        bool `json:"include_unmatched"`
	IncludeDiagnostics      bool `json:"include_diagnostics"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                  FormatConsole,
		IncludeMatchedPairs:     true,
		IncludeAmbiguousMatches: true,
		IncludeUnmatched:        true,
		IncludeDiagnostics:      true,
		CSVDelimiter:            ',',
		CSVHeaders:              true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// ReportGenerator generates reconciliation reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified
// configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the reconciliation output to the writer in the
// configured format
func (rg *ReportGenerator) GenerateReport(output *models.ReconciliationOutput, writer io.Writer) error {
	if output == nil {
		return fmt.Errorf("reconciliation output cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(output, writer)
	case FormatJSON:
		return rg.generateJSONReport(output, writer)
	case FormatCSV:
		return rg.generateCSVReport(output, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// generateConsoleReport generates a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(output *models.ReconciliationOutput, writer io.Writer) error {
	fmt.Fprintf(writer, "RECONCILIATION REPORT\n")
	fmt.Fprintf(writer, "=====================\n\n")

	summary := output.Summary
	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Transactions:           %d\n", summary.TotalTransactions)
	fmt.Fprintf(writer, "  Documents:              %d\n", summary.TotalDocuments)
	fmt.Fprintf(writer, "  Matched pairs:          %d\n", summary.MatchedPairs)
	fmt.Fprintf(writer, "  Ambiguous matches:      %d\n", summary.AmbiguousMatches)
	fmt.Fprintf(writer, "  Unmatched transactions: %d\n", summary.UnmatchedTransactions)
	fmt.Fprintf(writer, "  Unmatched documents:    %d\n\n", summary.UnmatchedDocuments)

	if rg.config.IncludeMatchedPairs && len(output.Matches.MatchedPairs) > 0 {
		fmt.Fprintf(writer, "Matched pairs:\n")
		for _, pair := range output.Matches.MatchedPairs {
			fmt.Fprintf(writer, "  %s -> %s (confidence %.2f, rules %s)\n",
				strings.Join(pair.TransactionIDs, ","),
				strings.Join(pair.DocumentIDs, ","),
				pair.Confidence,
				strings.Join(pair.RuleTrace, "|"))
		}
		fmt.Fprintln(writer)
	}

	if rg.config.IncludeAmbiguousMatches && len(output.Matches.AmbiguousMatches) > 0 {
		fmt.Fprintf(writer, "Ambiguous matches:\n")
		for _, ambiguous := range output.Matches.AmbiguousMatches {
			fmt.Fprintf(writer, "  %s (%s):\n",
				strings.Join(ambiguous.TransactionIDs, ","), ambiguous.Reason)
			for _, candidate := range ambiguous.CandidateDocuments {
				fmt.Fprintf(writer, "    %s (confidence %.2f)\n",
					candidate.DocumentID, candidate.Confidence)
			}
		}
		fmt.Fprintln(writer)
	}

	if rg.config.IncludeUnmatched {
		if len(output.Matches.UnmatchedTransactions) > 0 {
			fmt.Fprintf(writer, "Unmatched transactions: %s\n",
				strings.Join(output.Matches.UnmatchedTransactions, ", "))
		}
		if len(output.Matches.UnmatchedDocuments) > 0 {
			fmt.Fprintf(writer, "Unmatched documents: %s\n",
				strings.Join(output.Matches.UnmatchedDocuments, ", "))
		}
		if len(output.Matches.UnmatchedTransactions) > 0 || len(output.Matches.UnmatchedDocuments) > 0 {
			fmt.Fprintln(writer)
		}
	}

	if rg.config.IncludeDiagnostics {
		fmt.Fprintf(writer, "Rules applied: %s\n",
			strings.Join(output.Diagnostics.RulesApplied, ", "))
		for _, note := range output.Diagnostics.Notes {
			fmt.Fprintf(writer, "Note: %s\n", note)
		}
	}

	return nil
}

// generateJSONReport writes the full output structure as indented JSON
func (rg *ReportGenerator) generateJSONReport(output *models.ReconciliationOutput, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// generateCSVReport writes one row per result item
func (rg *ReportGenerator) generateCSVReport(output *models.ReconciliationOutput, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		header := []string{"result_type", "transaction_id", "document_id", "confidence", "reason", "rule_trace"}
		if err := csvWriter.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	if rg.config.IncludeMatchedPairs {
		for _, pair := range output.Matches.MatchedPairs {
			row := []string{
				"matched",
				strings.Join(pair.TransactionIDs, ";"),
				strings.Join(pair.DocumentIDs, ";"),
				formatConfidence(pair.Confidence),
				"",
				strings.Join(pair.RuleTrace, "|"),
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	if rg.config.IncludeAmbiguousMatches {
		for _, ambiguous := range output.Matches.AmbiguousMatches {
			for _, candidate := range ambiguous.CandidateDocuments {
				row := []string{
					"ambiguous",
					strings.Join(ambiguous.TransactionIDs, ";"),
					candidate.DocumentID,
					formatConfidence(candidate.Confidence),
					ambiguous.Reason,
					strings.Join(candidate.RuleTrace, "|"),
				}
				if err := csvWriter.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
		}
	}

	if rg.config.IncludeUnmatched {
		for _, id := range output.Matches.UnmatchedTransactions {
			if err := csvWriter.Write([]string{"unmatched_transaction", id, "", "", "", ""}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		for _, id := range output.Matches.UnmatchedDocuments {
			if err := csvWriter.Write([]string{"unmatched_document", "", id, "", "", ""}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	return nil
}

func formatConfidence(confidence float64) string {
	return strconv.FormatFloat(confidence, 'f', 4, 64)
}
