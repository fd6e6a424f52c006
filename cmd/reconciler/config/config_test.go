package config

import (
	"testing"

	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/reporter"
)

func TestBuildMatchingPreferences_NilBase(t *testing.T) {
	prefs := BuildMatchingPreferences(nil, nil)

	if prefs.AutoMatchThreshold() != 1.0 || prefs.DateToleranceDays != 0 {
		t.Errorf("Expected defaults, got %+v", prefs)
	}
}

func TestBuildMatchingPreferences_Overrides(t *testing.T) {
	base := &models.MatchingPreferences{
		DateToleranceDays:      1,
		MinConfidenceCandidate: 0.2,
	}

	tolerance := 5
	threshold := 0.8
	allowCross := true
	overrides := &PreferenceOverrides{
		DateToleranceDays:      &tolerance,
		MinConfidenceAutoMatch: &threshold,
		AllowCrossCurrency:     &allowCross,
	}

	prefs := BuildMatchingPreferences(base, overrides)

	if prefs.DateToleranceDays != 5 {
		t.Errorf("Expected tolerance override 5, got %d", prefs.DateToleranceDays)
	}
	if prefs.AutoMatchThreshold() != 0.8 {
		t.Errorf("Expected threshold override 0.8, got %f", prefs.AutoMatchThreshold())
	}
	if !prefs.AllowCrossCurrency {
		t.Error("Expected cross-currency override")
	}
	// Untouched base fields survive
	if prefs.MinConfidenceCandidate != 0.2 {
		t.Errorf("Expected base candidate threshold 0.2, got %f", prefs.MinConfidenceCandidate)
	}

	// The base is never mutated
	if base.DateToleranceDays != 1 {
		t.Error("Overrides must not mutate the base preferences")
	}
}

func TestBuildMatchingPreferences_OverridePointerIsolation(t *testing.T) {
	threshold := 0.9
	overrides := &PreferenceOverrides{MinConfidenceAutoMatch: &threshold}

	prefs := BuildMatchingPreferences(nil, overrides)
	threshold = 0.1

	if prefs.AutoMatchThreshold() != 0.9 {
		t.Errorf("Expected isolated threshold 0.9, got %f", prefs.AutoMatchThreshold())
	}
}

func TestCreateReportConfig(t *testing.T) {
	console := CreateReportConfig("console")
	if console.Format != reporter.FormatConsole {
		t.Errorf("Expected console format, got %s", console.Format)
	}

	jsonConfig := CreateReportConfig("json")
	if jsonConfig.Format != reporter.FormatJSON {
		t.Errorf("Expected json format, got %s", jsonConfig.Format)
	}

	csvConfig := CreateReportConfig("csv")
	if csvConfig.Format != reporter.FormatCSV {
		t.Errorf("Expected csv format, got %s", csvConfig.Format)
	}
	if csvConfig.IncludeDiagnostics {
		t.Error("Expected CSV reports to omit diagnostics")
	}

	for _, config := range []*reporter.ReportConfig{console, jsonConfig, csvConfig} {
		if err := config.Validate(); err != nil {
			t.Errorf("Expected valid config, got %v", err)
		}
	}
}
