// Package errors defines the structured error taxonomy of the matching
// service: validation failures on input records, sign mismatches on manual
// matches, parse and configuration errors. "No candidate found" is never an
// error here; empty results are valid results.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryMatching      ErrorCategory = "matching"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Validation errors
	CodeInvalidInput  ErrorCode = "invalid_input"
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeMissingField  ErrorCode = "missing_field"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"

	// Matching errors
	CodeSignMismatch    ErrorCode = "sign_mismatch"
	CodeInvalidMatch    ErrorCode = "invalid_match"
	CodeProcessingError ErrorCode = "processing_error"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// MatcherError is the base error type for all application errors
type MatcherError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *MatcherError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *MatcherError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *MatcherError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryMatching, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *MatcherError) WithContext(key string, value interface{}) *MatcherError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *MatcherError) WithSuggestion(suggestion string) *MatcherError {
	e.Suggestion = suggestion
	return e
}

// New creates a new MatcherError
func New(category ErrorCategory, code ErrorCode, message string) *MatcherError {
	return &MatcherError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with MatcherError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *MatcherError {
	if err == nil {
		return nil
	}

	return &MatcherError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// InvalidInputError reports a malformed transaction or entry record. During
// bulk candidate generation these are collected as warnings while the rest of
// the batch continues; they are never silently dropped.
func InvalidInputError(recordKind, recordID string, err error) *MatcherError {
	message := fmt.Sprintf("invalid %s record '%s'", recordKind, recordID)
	if recordID == "" {
		message = fmt.Sprintf("invalid %s record with missing ID", recordKind)
	}

	var result *MatcherError
	if err != nil {
		result = Wrap(err, CategoryValidation, CodeInvalidInput, message)
	} else {
		result = New(CategoryValidation, CodeInvalidInput, message)
	}

	return result.
		WithSuggestion("check the record for a missing ID, non-numeric amount or unparseable date").
		WithContext("record_kind", recordKind).
		WithContext("record_id", recordID)
}

// SignMismatchError reports a manual match between incompatible signed
// amounts: a debit transaction cannot reconcile a credit-side entry and vice
// versa. No assignment is emitted.
func SignMismatchError(transactionID, entryID string, transactionAmount, entryBalance string) *MatcherError {
	return New(CategoryMatching, CodeSignMismatch,
		fmt.Sprintf("sign mismatch: transaction %s (amount %s) cannot reconcile entry %s (net %s side)",
			transactionID, transactionAmount, entryID, entryBalance)).
		WithSuggestion("a debit transaction must be matched to a debit-side entry, a credit to a credit-side entry").
		WithContext("transaction_id", transactionID).
		WithContext("entry_id", entryID)
}

// InvalidMatchError reports a manual match rejected by the sanity bound
func InvalidMatchError(transactionID, entryID, reason string) *MatcherError {
	return New(CategoryMatching, CodeInvalidMatch,
		fmt.Sprintf("invalid match between transaction %s and entry %s: %s", transactionID, entryID, reason)).
		WithContext("transaction_id", transactionID).
		WithContext("entry_id", entryID)
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *MatcherError {
	var message, suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *MatcherError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error
func ParseError(code ErrorCode, file string, line int, column string, value string, err error) *MatcherError {
	var message, suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "check the data format and ensure it matches the expected structure"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in file %s", column, file)
		suggestion = "verify the file has all required columns with correct headers"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "correct the data format or remove the invalid entry"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	var result *MatcherError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("column", column).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(setting string, value interface{}, err error) *MatcherError {
	message := fmt.Sprintf("invalid configuration for '%s': %v", setting, value)

	var result *MatcherError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, CodeInvalidConfig, message)
	} else {
		result = New(CategoryConfiguration, CodeInvalidConfig, message)
	}

	return result.
		WithSuggestion("check the configuration documentation for valid values").
		WithContext("setting", setting).
		WithContext("value", value)
}

// MatchingError creates a matching-process error
func MatchingError(operation string, err error) *MatcherError {
	message := fmt.Sprintf("matching failed during %s", operation)

	var result *MatcherError
	if err != nil {
		result = Wrap(err, CategoryMatching, CodeProcessingError, message)
	} else {
		result = New(CategoryMatching, CodeProcessingError, message)
	}

	return result.
		WithSuggestion("try adjusting matching tolerances or check data quality").
		WithContext("operation", operation)
}

// InternalError creates an internal error
func InternalError(operation string, err error) *MatcherError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *MatcherError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	} else {
		result = New(CategoryInternal, CodeUnexpectedError, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// Classification helpers

// IsMatcherError checks if an error is a MatcherError
func IsMatcherError(err error) bool {
	_, ok := err.(*MatcherError)
	return ok
}

// AsMatcherError extracts a MatcherError from an error chain
func AsMatcherError(err error) (*MatcherError, bool) {
	var matcherErr *MatcherError
	if errors.As(err, &matcherErr) {
		return matcherErr, true
	}
	return nil, false
}

// IsSignMismatch reports whether the error chain contains a sign mismatch
func IsSignMismatch(err error) bool {
	if matcherErr, ok := AsMatcherError(err); ok {
		return matcherErr.Code == CodeSignMismatch
	}
	return false
}

// IsInvalidInput reports whether the error chain contains an invalid input record error
func IsInvalidInput(err error) bool {
	if matcherErr, ok := AsMatcherError(err); ok {
		return matcherErr.Code == CodeInvalidInput
	}
	return false
}

// IsInvalidMatch reports whether the error chain contains a rejected manual match
func IsInvalidMatch(err error) bool {
	if matcherErr, ok := AsMatcherError(err); ok {
		return matcherErr.Code == CodeInvalidMatch
	}
	return false
}

// ErrorSummary provides a summary of multiple errors, used to report
// skip-and-continue warnings from a bulk run
type ErrorSummary struct {
	Total        int                   `json:"total"`
	ByCategory   map[ErrorCategory]int `json:"by_category"`
	ByCode       map[ErrorCode]int     `json:"by_code"`
	Errors       []*MatcherError       `json:"errors"`
	SampleErrors []*MatcherError       `json:"sample_errors,omitempty"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errs []*MatcherError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}
	if len(errs) == 0 {
		summary.Errors = []*MatcherError{}
		return summary
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	maxSamples := 5
	if len(errs) > maxSamples {
		summary.SampleErrors = errs[:maxSamples]
	} else {
		summary.SampleErrors = errs
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCategory checks if the summary contains errors of the given category
func (es *ErrorSummary) HasCategory(category ErrorCategory) bool {
	count, exists := es.ByCategory[category]
	return exists && count > 0
}

// HasCode checks if the summary contains errors with the given code
func (es *ErrorSummary) HasCode(code ErrorCode) bool {
	count, exists := es.ByCode[code]
	return exists && count > 0
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}
