package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeText lowercases a string, collapses internal whitespace runs to a
// single space and trims the result. Both sides of a reference comparison go
// through this before the substring test.
func NormalizeText(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(lowered), " ")
}

// DaysBetween returns the absolute difference in calendar days between two
// dates. Time-of-day and timezone offsets are ignored: both values are
// truncated to their calendar date before comparison.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	diff := da.Sub(db)
	if diff < 0 {
		diff = -diff
	}

	return int(diff / (24 * time.Hour))
}

// CompareAmountsWithTolerance reports whether two decimal amounts differ by
// at most the tolerance
func CompareAmountsWithTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// ParseDecimalFromString parses a decimal value from string with validation,
// tolerating common currency symbols and thousand separators
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseDateWithFormats attempts to parse a date from string using multiple
// common formats
func ParseDateWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"02/01/2006",
		"01/02/2006",
		"2006/01/02",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// ParseTransactionStatus parses and validates a transaction status from string.
// An empty string maps to pending, matching records imported before the
// status column existed.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusPending, nil
	}

	status := TransactionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid transaction status '%s': must be pending, categorized, reconciled or ignored", s)
	}

	return status, nil
}

// ParseBool parses a boolean field from common CSV spellings
func ParseBool(s string) (bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value '%s'", s)
	}
	return b, nil
}

// CreateBankTransactionFromCSV creates a BankTransaction from CSV field values
func CreateBankTransactionFromCSV(id, dateStr, amountStr, description, reference, statusStr string) (*BankTransaction, error) {
	amount, err := ParseDecimalFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in CSV: %w", err)
	}

	date, err := ParseDateWithFormats(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date in CSV: %w", err)
	}

	status, err := ParseTransactionStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("invalid status in CSV: %w", err)
	}

	tx := NewBankTransaction(strings.TrimSpace(id), date, amount, strings.TrimSpace(description))
	tx.Reference = strings.TrimSpace(reference)
	tx.Status = status

	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction data: %w", err)
	}

	return tx, nil
}

// CreateAccountingEntryFromCSV creates an AccountingEntry from CSV field values
func CreateAccountingEntryFromCSV(id, dateStr, debitStr, creditStr, description, referenceNumber, sourceReference, reconciledStr string) (*AccountingEntry, error) {
	debit := decimal.Zero
	if strings.TrimSpace(debitStr) != "" {
		var err error
		debit, err = ParseDecimalFromString(debitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid total debit in CSV: %w", err)
		}
	}

	credit := decimal.Zero
	if strings.TrimSpace(creditStr) != "" {
		var err error
		credit, err = ParseDecimalFromString(creditStr)
		if err != nil {
			return nil, fmt.Errorf("invalid total credit in CSV: %w", err)
		}
	}

	date, err := ParseDateWithFormats(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date in CSV: %w", err)
	}

	reconciled, err := ParseBool(reconciledStr)
	if err != nil {
		return nil, fmt.Errorf("invalid reconciled flag in CSV: %w", err)
	}

	entry := NewAccountingEntry(strings.TrimSpace(id), date, debit, credit)
	entry.Description = strings.TrimSpace(description)
	entry.ReferenceNumber = strings.TrimSpace(referenceNumber)
	entry.SourceReference = strings.TrimSpace(sourceReference)
	entry.Reconciled = reconciled

	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid entry data: %w", err)
	}

	return entry, nil
}
