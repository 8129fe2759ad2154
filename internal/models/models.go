package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a bank transaction
type TransactionStatus string

const (
	// StatusPending marks a transaction that has not been categorized or reconciled
	StatusPending TransactionStatus = "pending"
	// StatusCategorized marks a transaction assigned to an account but not reconciled
	StatusCategorized TransactionStatus = "categorized"
	// StatusReconciled marks a transaction matched to an accounting entry
	StatusReconciled TransactionStatus = "reconciled"
	// StatusIgnored marks a transaction excluded from reconciliation by an operator
	StatusIgnored TransactionStatus = "ignored"
)

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid checks if the transaction status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCategorized, StatusReconciled, StatusIgnored:
		return true
	default:
		return false
	}
}

// MatchMethod indicates how a match assignment was produced
type MatchMethod string

const (
	// MethodAutomatic marks assignments produced by the matching engine
	MethodAutomatic MatchMethod = "automatic"
	// MethodManual marks assignments confirmed by a human operator
	MethodManual MatchMethod = "manual"
)

// String returns the string representation of MatchMethod
func (m MatchMethod) String() string {
	return string(m)
}

// IsValid checks if the match method is valid
func (m MatchMethod) IsValid() bool {
	return m == MethodAutomatic || m == MethodManual
}

// BankTransaction represents a bank statement line to be reconciled.
// Amounts follow the bank convention: negative for debits (money out),
// positive for credits (money in).
type BankTransaction struct {
	ID          string            `json:"id" csv:"id"`
	Date        time.Time         `json:"date" csv:"date"`
	Amount      decimal.Decimal   `json:"amount" csv:"amount"`
	Description string            `json:"description" csv:"description"`
	Reference   string            `json:"reference,omitempty" csv:"reference"`
	Status      TransactionStatus `json:"status" csv:"status"`
}

// NewBankTransaction creates a new BankTransaction instance
func NewBankTransaction(id string, date time.Time, amount decimal.Decimal, description string) *BankTransaction {
	return &BankTransaction{
		ID:          id,
		Date:        date,
		Amount:      amount,
		Description: description,
		Status:      StatusPending,
	}
}

// Validate performs basic validation on the BankTransaction
func (t *BankTransaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if t.Date.IsZero() {
		return fmt.Errorf("transaction date cannot be zero")
	}

	if t.Amount.IsZero() {
		return fmt.Errorf("transaction amount cannot be zero")
	}

	if t.Status != "" && !t.Status.IsValid() {
		return fmt.Errorf("invalid transaction status: %s", t.Status)
	}

	return nil
}

// BankAmount returns the absolute value used for amount comparison
func (t *BankTransaction) BankAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// IsDebit returns true if the transaction represents money out (negative amount)
func (t *BankTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// IsCredit returns true if the transaction represents money in (positive amount)
func (t *BankTransaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// IsPending returns true if the transaction is eligible for matching
func (t *BankTransaction) IsPending() bool {
	return t.Status == StatusPending
}

// String returns a string representation of the BankTransaction
func (t *BankTransaction) String() string {
	return fmt.Sprintf("BankTransaction{ID: %s, Amount: %s, Date: %s, Status: %s}",
		t.ID, t.Amount.String(), t.Date.Format("2006-01-02"), t.Status)
}

// MarshalJSON implements custom JSON marshaling for BankTransaction
func (t *BankTransaction) MarshalJSON() ([]byte, error) {
	type Alias BankTransaction
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: t.Amount.String(),
		Date:   t.Date.Format("2006-01-02"),
		Alias:  (*Alias)(t),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for BankTransaction
func (t *BankTransaction) UnmarshalJSON(data []byte) error {
	type Alias BankTransaction
	aux := &struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	t.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	t.Date, err = ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	return nil
}

// AccountingEntry represents a journal entry line eligible for reconciliation.
// The matchable amount is the absolute difference between total debit and
// total credit.
type AccountingEntry struct {
	ID              string          `json:"id" csv:"id"`
	Date            time.Time       `json:"date" csv:"date"`
	TotalDebit      decimal.Decimal `json:"totalDebit" csv:"total_debit"`
	TotalCredit     decimal.Decimal `json:"totalCredit" csv:"total_credit"`
	Description     string          `json:"description" csv:"description"`
	ReferenceNumber string          `json:"referenceNumber,omitempty" csv:"reference_number"`
	SourceReference string          `json:"sourceReference,omitempty" csv:"source_reference"`
	Reconciled      bool            `json:"reconciled" csv:"reconciled"`
}

// NewAccountingEntry creates a new AccountingEntry instance
func NewAccountingEntry(id string, date time.Time, totalDebit, totalCredit decimal.Decimal) *AccountingEntry {
	return &AccountingEntry{
		ID:          id,
		Date:        date,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}
}

// Validate performs basic validation on the AccountingEntry
func (e *AccountingEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("entry ID cannot be empty")
	}

	if e.Date.IsZero() {
		return fmt.Errorf("entry date cannot be zero")
	}

	if e.TotalDebit.IsNegative() {
		return fmt.Errorf("entry total debit cannot be negative: %s", e.TotalDebit.String())
	}

	if e.TotalCredit.IsNegative() {
		return fmt.Errorf("entry total credit cannot be negative: %s", e.TotalCredit.String())
	}

	return nil
}

// Amount returns the matchable amount of the entry: |totalDebit - totalCredit|
func (e *AccountingEntry) Amount() decimal.Decimal {
	return e.TotalDebit.Sub(e.TotalCredit).Abs()
}

// IsDebitSide returns true if the entry carries a net debit balance
func (e *AccountingEntry) IsDebitSide() bool {
	return e.TotalDebit.GreaterThan(e.TotalCredit)
}

// IsCreditSide returns true if the entry carries a net credit balance
func (e *AccountingEntry) IsCreditSide() bool {
	return e.TotalCredit.GreaterThan(e.TotalDebit)
}

// String returns a string representation of the AccountingEntry
func (e *AccountingEntry) String() string {
	return fmt.Sprintf("AccountingEntry{ID: %s, Amount: %s, Date: %s, Reconciled: %t}",
		e.ID, e.Amount().String(), e.Date.Format("2006-01-02"), e.Reconciled)
}

// MarshalJSON implements custom JSON marshaling for AccountingEntry
func (e *AccountingEntry) MarshalJSON() ([]byte, error) {
	type Alias AccountingEntry
	return json.Marshal(&struct {
		TotalDebit  string `json:"totalDebit"`
		TotalCredit string `json:"totalCredit"`
		Date        string `json:"date"`
		*Alias
	}{
		TotalDebit:  e.TotalDebit.String(),
		TotalCredit: e.TotalCredit.String(),
		Date:        e.Date.Format("2006-01-02"),
		Alias:       (*Alias)(e),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for AccountingEntry
func (e *AccountingEntry) UnmarshalJSON(data []byte) error {
	type Alias AccountingEntry
	aux := &struct {
		TotalDebit  string `json:"totalDebit"`
		TotalCredit string `json:"totalCredit"`
		Date        string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	e.TotalDebit, err = decimal.NewFromString(aux.TotalDebit)
	if err != nil {
		return fmt.Errorf("invalid total debit format: %w", err)
	}

	e.TotalCredit, err = decimal.NewFromString(aux.TotalCredit)
	if err != nil {
		return fmt.Errorf("invalid total credit format: %w", err)
	}

	e.Date, err = ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	return nil
}

// MatchCandidate represents a (transaction, entry) pair that survived the
// hard amount and date filters. Candidates are ephemeral: created and
// discarded within a single matching run.
type MatchCandidate struct {
	TransactionID      string          `json:"transactionId"`
	EntryID            string          `json:"entryId"`
	DateDifferenceDays int             `json:"dateDifferenceDays"`
	AmountDifference   decimal.Decimal `json:"amountDifference"`
	HasReferenceMatch  bool            `json:"hasReferenceMatch"`

	// DescriptionSimilarity is the 0-100 similarity between the transaction
	// and entry labels. It is informational: match reasons surface it, but it
	// never affects ranking.
	DescriptionSimilarity float64 `json:"descriptionSimilarity,omitempty"`

	ConfidenceScore float64  `json:"confidenceScore"`
	Reasons         []string `json:"reasons,omitempty"`
}

// String returns a string representation of the MatchCandidate
func (c *MatchCandidate) String() string {
	return fmt.Sprintf("MatchCandidate{Tx: %s, Entry: %s, Days: %d, Ref: %t, Score: %.1f}",
		c.TransactionID, c.EntryID, c.DateDifferenceDays, c.HasReferenceMatch, c.ConfidenceScore)
}

// MatchAssignment is the only data crossing the engine's output boundary.
// The external caller persists the corresponding status transitions.
type MatchAssignment struct {
	ID              string      `json:"id,omitempty"`
	TransactionID   string      `json:"transactionId"`
	EntryID         string      `json:"entryId"`
	ConfidenceScore float64     `json:"confidenceScore"`
	Method          MatchMethod `json:"method"`
	MatchedAt       time.Time   `json:"matchedAt,omitempty"`
	Reasons         []string    `json:"reasons,omitempty"`
}

// Validate performs basic validation on the MatchAssignment
func (a *MatchAssignment) Validate() error {
	if strings.TrimSpace(a.TransactionID) == "" {
		return fmt.Errorf("assignment transaction ID cannot be empty")
	}

	if strings.TrimSpace(a.EntryID) == "" {
		return fmt.Errorf("assignment entry ID cannot be empty")
	}

	if a.ConfidenceScore < 0 || a.ConfidenceScore > 100 {
		return fmt.Errorf("assignment confidence score must be between 0 and 100: %f", a.ConfidenceScore)
	}

	if !a.Method.IsValid() {
		return fmt.Errorf("invalid assignment method: %s", a.Method)
	}

	return nil
}

// String returns a string representation of the MatchAssignment
func (a *MatchAssignment) String() string {
	return fmt.Sprintf("MatchAssignment{Tx: %s, Entry: %s, Score: %.1f, Method: %s}",
		a.TransactionID, a.EntryID, a.ConfidenceScore, a.Method)
}
