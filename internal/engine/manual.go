package engine

import (
	"time"

	"bank-matching-service/internal/models"
	apperrors "bank-matching-service/pkg/errors"

	"github.com/google/uuid"
)

// ManualMatchRequest carries a single human-confirmed pair for validation
type ManualMatchRequest struct {
	Transaction *models.BankTransaction
	Entry       *models.AccountingEntry

	// Confidence defaults to 100 when zero: the operator has visually
	// confirmed the pair.
	Confidence float64
}

// AcceptManualMatch validates a human-confirmed match and emits the
// assignment. Manual matches bypass the automatic tolerance and date-window
// filters, but two checks still apply:
//
//   - sign compatibility: a debit transaction can only reconcile a
//     debit-side entry, a credit only a credit-side entry
//   - a generous amount sanity bound: the amounts must be within a factor of
//     two of each other
//
// The caller persists the resulting status transition; calling this twice
// with the same valid pair returns two equivalent assignments.
func (e *Engine) AcceptManualMatch(req *ManualMatchRequest) (*models.MatchAssignment, error) {
	if req == nil || req.Transaction == nil || req.Entry == nil {
		return nil, apperrors.New(apperrors.CategoryValidation, apperrors.CodeMissingField,
			"manual match requires both a transaction and an entry")
	}

	tx := req.Transaction
	entry := req.Entry

	if err := tx.Validate(); err != nil {
		return nil, apperrors.InvalidInputError("transaction", tx.ID, err)
	}
	if err := entry.Validate(); err != nil {
		return nil, apperrors.InvalidInputError("entry", entry.ID, err)
	}

	if entry.Amount().IsZero() {
		return nil, apperrors.InvalidMatchError(tx.ID, entry.ID, "entry has a zero matchable amount")
	}

	if err := checkSignCompatibility(tx, entry); err != nil {
		return nil, err
	}

	// Sanity bound: the human confirmed the pair, but an order-of-magnitude
	// gap is a selection mistake, not a rounding difference.
	bankAmount := tx.BankAmount()
	entryAmount := entry.Amount()
	larger := bankAmount
	if entryAmount.GreaterThan(larger) {
		larger = entryAmount
	}
	if bankAmount.Sub(entryAmount).Abs().GreaterThan(larger) {
		return nil, apperrors.InvalidMatchError(tx.ID, entry.ID, "amounts differ by more than the larger amount")
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = 100.0
	}

	return &models.MatchAssignment{
		ID:              uuid.NewString(),
		TransactionID:   tx.ID,
		EntryID:         entry.ID,
		ConfidenceScore: confidence,
		Method:          models.MethodManual,
		MatchedAt:       time.Now().UTC(),
		Reasons:         []string{"confirmed by operator"},
	}, nil
}

// checkSignCompatibility enforces the double-entry sign convention between a
// bank transaction and an entry. Debit transactions (money out) reconcile
// entries carrying a net debit balance; credit transactions reconcile net
// credit entries.
func checkSignCompatibility(tx *models.BankTransaction, entry *models.AccountingEntry) error {
	entrySide := "debit"
	if entry.IsCreditSide() {
		entrySide = "credit"
	}

	if tx.IsDebit() && entry.IsCreditSide() {
		return apperrors.SignMismatchError(tx.ID, entry.ID, tx.Amount.String(), entrySide)
	}

	if tx.IsCredit() && entry.IsDebitSide() {
		return apperrors.SignMismatchError(tx.ID, entry.ID, tx.Amount.String(), entrySide)
	}

	return nil
}
