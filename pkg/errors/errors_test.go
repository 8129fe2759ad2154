package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestMatcherError_Error(t *testing.T) {
	err := New(CategoryValidation, CodeInvalidInput, "bad record")
	if err.Error() != "bad record" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad record")
	}

	err = err.WithSuggestion("fix the record")
	if !strings.Contains(err.Error(), "suggestion: fix the record") {
		t.Errorf("Error() = %q, should include the suggestion", err.Error())
	}
}

func TestMatcherError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(cause, CategoryParse, CodeInvalidData, "wrapped")

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want the original cause", err.Unwrap())
	}
}

func TestWrap_NilError(t *testing.T) {
	if Wrap(nil, CategoryParse, CodeInvalidData, "msg") != nil {
		t.Errorf("Wrap(nil, ...) should return nil")
	}
}

func TestMatcherError_GetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryMatching, 5},
		{CategoryInternal, 5},
		{"unknown", 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := New(tt.category, "code", "msg")
			if got := err.GetExitCode(); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestInvalidInputError(t *testing.T) {
	err := InvalidInputError("transaction", "TX001", fmt.Errorf("amount cannot be zero"))

	if err.Category != CategoryValidation || err.Code != CodeInvalidInput {
		t.Errorf("category/code = %s/%s, want validation/invalid_input", err.Category, err.Code)
	}
	if !strings.Contains(err.Message, "TX001") {
		t.Errorf("message %q should name the record", err.Message)
	}
	if !IsInvalidInput(err) {
		t.Errorf("IsInvalidInput() = false, want true")
	}

	missing := InvalidInputError("entry", "", nil)
	if !strings.Contains(missing.Message, "missing ID") {
		t.Errorf("message %q should mention the missing ID", missing.Message)
	}
}

func TestSignMismatchError(t *testing.T) {
	err := SignMismatchError("TX001", "E001", "-50", "credit")

	if err.Code != CodeSignMismatch {
		t.Errorf("code = %s, want sign_mismatch", err.Code)
	}
	if !IsSignMismatch(err) {
		t.Errorf("IsSignMismatch() = false, want true")
	}
	if IsSignMismatch(fmt.Errorf("other")) {
		t.Errorf("IsSignMismatch() = true for an unrelated error")
	}
	for _, want := range []string{"TX001", "E001", "credit"} {
		if !strings.Contains(err.Message, want) {
			t.Errorf("message %q should contain %q", err.Message, want)
		}
	}
}

func TestInvalidMatchError(t *testing.T) {
	err := InvalidMatchError("TX001", "E001", "amounts differ by more than the larger amount")
	if !IsInvalidMatch(err) {
		t.Errorf("IsInvalidMatch() = false, want true")
	}
	if err.GetExitCode() != 5 {
		t.Errorf("GetExitCode() = %d, want 5", err.GetExitCode())
	}
}

func TestFileError(t *testing.T) {
	err := FileError(CodeFileNotFound, "/tmp/missing.csv", nil)
	if err.Category != CategoryFile {
		t.Errorf("category = %s, want file", err.Category)
	}
	if err.Context["file_path"] != "/tmp/missing.csv" {
		t.Errorf("context file_path = %v, want the path", err.Context["file_path"])
	}
	if err.Suggestion == "" {
		t.Errorf("file errors should carry a suggestion")
	}
}

func TestParseError(t *testing.T) {
	err := ParseError(CodeInvalidData, "data.csv", 42, "amount", "abc", nil)
	if err.Category != CategoryParse {
		t.Errorf("category = %s, want parse", err.Category)
	}
	for _, want := range []string{"data.csv", "42", "amount", "abc"} {
		if !strings.Contains(err.Message, want) {
			t.Errorf("message %q should contain %q", err.Message, want)
		}
	}
}

func TestAsMatcherError(t *testing.T) {
	direct := New(CategoryInternal, CodeUnexpectedError, "boom")
	wrapped := fmt.Errorf("outer: %w", direct)

	if got, ok := AsMatcherError(wrapped); !ok || got != direct {
		t.Errorf("AsMatcherError() should unwrap through fmt.Errorf chains")
	}
	if _, ok := AsMatcherError(fmt.Errorf("plain")); ok {
		t.Errorf("AsMatcherError() = true for a plain error")
	}
}

func TestErrorSummary(t *testing.T) {
	var errs []*MatcherError
	for i := 0; i < 7; i++ {
		errs = append(errs, InvalidInputError("transaction", fmt.Sprintf("TX%03d", i), nil))
	}
	errs = append(errs, FileError(CodeFileNotFound, "/tmp/x", nil))

	summary := NewErrorSummary(errs)

	if summary.Total != 8 {
		t.Errorf("Total = %d, want 8", summary.Total)
	}
	if summary.ByCategory[CategoryValidation] != 7 {
		t.Errorf("validation count = %d, want 7", summary.ByCategory[CategoryValidation])
	}
	if len(summary.SampleErrors) != 5 {
		t.Errorf("samples = %d, want 5", len(summary.SampleErrors))
	}
	if !summary.HasCategory(CategoryFile) || summary.HasCategory(CategoryParse) {
		t.Errorf("HasCategory() gave wrong answers")
	}
	if !summary.HasCode(CodeInvalidInput) {
		t.Errorf("HasCode(invalid_input) = false, want true")
	}
	// Highest priority wins: validation (3) vs file (2)
	if summary.GetExitCode() != 3 {
		t.Errorf("GetExitCode() = %d, want 3", summary.GetExitCode())
	}
	if !strings.Contains(summary.Error(), "8 errors occurred") {
		t.Errorf("Error() = %q, should mention the total", summary.Error())
	}
}

func TestErrorSummary_Empty(t *testing.T) {
	summary := NewErrorSummary(nil)
	if summary.Total != 0 {
		t.Errorf("Total = %d, want 0", summary.Total)
	}
	if summary.GetExitCode() != 0 {
		t.Errorf("GetExitCode() = %d, want 0", summary.GetExitCode())
	}
	if summary.Error() != "no errors" {
		t.Errorf("Error() = %q, want 'no errors'", summary.Error())
	}
}
