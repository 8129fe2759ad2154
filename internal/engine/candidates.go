package engine

import (
	"strings"

	"bank-matching-service/internal/models"
	apperrors "bank-matching-service/pkg/errors"
)

// CandidateResult holds the output of candidate generation. Malformed records
// are skipped and reported in Warnings; they never abort the batch and never
// reach the scoring stage.
type CandidateResult struct {
	Candidates []*models.MatchCandidate
	Warnings   []*apperrors.MatcherError
}

// GenerateCandidates scans pending transactions against unreconciled entries
// and retains the pairs that pass both hard filters:
//
//   - |bankAmount - entryAmount| <= AmountTolerance
//   - calendar day difference <= DateWindowDays
//
// Transactions that are not pending and entries already reconciled are
// ignored without a warning; that is their normal lifecycle state, not a data
// problem. Candidate order follows the input order of transactions, then of
// entries, so identical inputs always produce an identical candidate list.
func (e *Engine) GenerateCandidates(transactions []*models.BankTransaction, entries []*models.AccountingEntry) *CandidateResult {
	result := &CandidateResult{}

	eligible := make([]*models.AccountingEntry, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if err := entry.Validate(); err != nil {
			result.Warnings = append(result.Warnings, apperrors.InvalidInputError("entry", entry.ID, err))
			continue
		}
		if entry.Reconciled {
			continue
		}
		eligible = append(eligible, entry)
	}

	index := NewEntryIndex(eligible)

	for _, tx := range transactions {
		if tx == nil {
			continue
		}
		if err := tx.Validate(); err != nil {
			result.Warnings = append(result.Warnings, apperrors.InvalidInputError("transaction", tx.ID, err))
			continue
		}
		if !tx.IsPending() {
			continue
		}

		bankAmount := tx.BankAmount()
		for _, entry := range index.Candidates(bankAmount, e.config.AmountTolerance) {
			days := models.DaysBetween(tx.Date, entry.Date)
			if days > e.config.DateWindowDays {
				continue
			}

			result.Candidates = append(result.Candidates, &models.MatchCandidate{
				TransactionID:         tx.ID,
				EntryID:               entry.ID,
				DateDifferenceDays:    days,
				AmountDifference:      bankAmount.Sub(entry.Amount()).Abs(),
				HasReferenceMatch:     hasReferenceMatch(tx, entry),
				DescriptionSimilarity: StringSimilarity(tx.Description, entry.Description),
			})
		}
	}

	return result
}

// hasReferenceMatch reports whether the transaction's reference or
// description contains one of the entry's reference fields, after both sides
// are normalized. Empty entry references never match.
func hasReferenceMatch(tx *models.BankTransaction, entry *models.AccountingEntry) bool {
	haystacks := []string{
		models.NormalizeText(tx.Reference),
		models.NormalizeText(tx.Description),
	}

	needles := []string{
		models.NormalizeText(entry.ReferenceNumber),
		models.NormalizeText(entry.SourceReference),
	}

	for _, needle := range needles {
		if needle == "" {
			continue
		}
		for _, haystack := range haystacks {
			if haystack == "" {
				continue
			}
			if strings.Contains(haystack, needle) {
				return true
			}
		}
	}

	return false
}
