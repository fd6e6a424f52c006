package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestReconcilerErrorExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *ReconcilerError
		category   ErrorCategory
		expectCode int
	}{
		{"file error", FileError(CodeFileNotFound, "/tmp/missing.json", nil), CategoryFile, 2},
		{"parse error", ParseError(CodeInvalidFormat, "input.json", errors.New("bad json")), CategoryParse, 3},
		{"validation error", ValidationError(CodeDuplicateID, "transactions[1]", "TX001", nil), CategoryValidation, 3},
		{"configuration error", ConfigurationError(CodeInvalidConfig, "matching preferences", nil), CategoryConfiguration, 4},
		{"reconciliation error", ReconciliationError(CodeProcessingError, "classify", nil), CategoryReconciliation, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, tt.err.Category)
			}
			if tt.err.GetExitCode() != tt.expectCode {
				t.Errorf("expected exit code %d, got %d", tt.expectCode, tt.err.GetExitCode())
			}
		})
	}
}

func TestReconcilerErrorMessages(t *testing.T) {
	err := FileError(CodeFileNotFound, "/tmp/input.json", nil)
	if !strings.Contains(err.Error(), "file not found") {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if err.Context["path"] != "/tmp/input.json" {
		t.Errorf("expected path context, got %v", err.Context)
	}

	cause := errors.New("unexpected end of JSON input")
	parseErr := ParseError(CodeInvalidFormat, "input.json", cause)
	if !strings.Contains(parseErr.Error(), cause.Error()) {
		t.Errorf("expected cause in message, got %s", parseErr.Error())
	}
}

func TestReconcilerErrorSuggestion(t *testing.T) {
	err := FileError(CodeFileNotFound, "input.json", nil).
		WithSuggestion("Check the file path and try again")

	if !strings.Contains(err.Error(), "suggestion: Check the file path") {
		t.Errorf("expected suggestion in error string, got %s", err.Error())
	}
}

func TestReconcilerErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ReconciliationError(CodeProcessingError, "score", cause)

	if err.Unwrap() != cause {
		t.Errorf("expected to unwrap to %v, got %v", cause, err.Unwrap())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAsReconcilerError(t *testing.T) {
	inner := ValidationError(CodeInvalidData, "documents[0]", nil, nil)
	wrapped := fmt.Errorf("loading input: %w", inner)

	got, ok := AsReconcilerError(wrapped)
	if !ok {
		t.Fatal("expected to find ReconcilerError in chain")
	}
	if got != inner {
		t.Error("expected the original ReconcilerError")
	}

	if _, ok := AsReconcilerError(errors.New("plain")); ok {
		t.Error("should not match a plain error")
	}
	if _, ok := AsReconcilerError(nil); ok {
		t.Error("should not match nil")
	}
}

func TestIsCategory(t *testing.T) {
	err := ParseError(CodeInvalidFormat, "input.json", nil)

	if !IsCategory(err, CategoryParse) {
		t.Error("expected parse category match")
	}
	if IsCategory(err, CategoryFile) {
		t.Error("unexpected file category match")
	}
}

func TestStackTraceCaptured(t *testing.T) {
	err := ConfigurationError(CodeInvalidConfig, "thresholds", nil)

	if err.StackTrace == nil {
		t.Fatal("expected stack trace to be captured")
	}
	if FormatStackTrace(err) == "" {
		t.Error("expected non-empty formatted stack trace")
	}
}

func TestWithContext(t *testing.T) {
	err := ReconciliationError(CodeProcessingError, "generate", nil).
		WithContext("transactions", 10).
		WithContext("documents", 5)

	if err.Context["transactions"] != 10 || err.Context["documents"] != 5 {
		t.Errorf("unexpected context: %v", err.Context)
	}
	// Constructor context is preserved
	if err.Context["step"] != "generate" {
		t.Errorf("expected step context, got %v", err.Context)
	}
}
