package config

import (
	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/reporter"
)

// PreferenceOverrides holds matching preference values supplied on the
// command line. Nil fields mean the flag was not set and the base value
// is kept.
type PreferenceOverrides struct {
	DateToleranceDays      *int
	PreIssueGraceDays      *int
	PostDueGraceDays       *int
	MinConfidenceAutoMatch *float64
	MinConfidenceCandidate *float64
	AllowCrossCurrency     *bool
	AllowPartialPayments   *bool
}

// BuildMatchingPreferences layers CLI overrides on top of a base
// preference set. The base is typically loaded from the input file or a
// preferences file; when nil, defaults are used.
func BuildMatchingPreferences(base *models.MatchingPreferences, overrides *PreferenceOverrides) *models.MatchingPreferences {
	prefs := models.DefaultMatchingPreferences()
	if base != nil {
		prefs = base.Clone()
	}

	if overrides == nil {
		return prefs
	}

	if overrides.DateToleranceDays != nil {
		prefs.DateToleranceDays = *overrides.DateToleranceDays
	}
	if overrides.PreIssueGraceDays != nil {
		prefs.PreIssueGraceDays = *overrides.PreIssueGraceDays
	}
	if overrides.PostDueGraceDays != nil {
		prefs.PostDueGraceDays = *overrides.PostDueGraceDays
	}
	if overrides.MinConfidenceAutoMatch != nil {
		value := *overrides.MinConfidenceAutoMatch
		prefs.MinConfidenceAutoMatch = &value
	}
	if overrides.MinConfidenceCandidate != nil {
		prefs.MinConfidenceCandidate = *overrides.MinConfidenceCandidate
	}
	if overrides.AllowCrossCurrency != nil {
		prefs.AllowCrossCurrency = *overrides.AllowCrossCurrency
	}
	if overrides.AllowPartialPayments != nil {
		prefs.AllowPartialPayments = *overrides.AllowPartialPayments
	}

	return prefs
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
		config.IncludeDiagnostics = false // CSV is row data only
	}

	return config
}
