package reconciler

import (
	"time"

	"bank-matching-service/internal/models"
	apperrors "bank-matching-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// MatchRunResult contains the complete outcome of one matching run
type MatchRunResult struct {
	// Summary information
	Summary *RunSummary `json:"summary"`

	// Accepted holds the conflict-free automatic assignments, finalized
	// with IDs and timestamps, in transaction input order
	Accepted []*models.MatchAssignment `json:"accepted,omitempty"`

	// NeedsReview lists transactions whose best candidate was rejected by
	// the confidence threshold or lost its entry to an earlier transaction
	NeedsReview []string `json:"needs_review,omitempty"`

	// Suggestions holds ranked entry IDs (best first) for every pending
	// transaction that was not automatically matched but has candidates
	Suggestions map[string][]string `json:"suggestions,omitempty"`

	// Unmatched records
	UnmatchedTransactions []*models.BankTransaction `json:"unmatched_transactions,omitempty"`
	UnmatchedEntries      []*models.AccountingEntry `json:"unmatched_entries,omitempty"`

	// Warnings from skipped malformed rows and records
	Warnings *apperrors.ErrorSummary `json:"warnings,omitempty"`

	// Metadata
	ProcessedAt time.Time `json:"processed_at"`
}

// RunSummary provides a high-level overview of a matching run
type RunSummary struct {
	// Input counts
	TotalTransactions   int `json:"total_transactions"`
	PendingTransactions int `json:"pending_transactions"`
	TotalEntries        int `json:"total_entries"`
	UnreconciledEntries int `json:"unreconciled_entries"`

	// Outcome counts
	AutoMatched           int `json:"auto_matched"`
	NeedsReview           int `json:"needs_review"`
	UnmatchedTransactions int `json:"unmatched_transactions"`
	UnmatchedEntries      int `json:"unmatched_entries"`
	SkippedRecords        int `json:"skipped_records"`

	// Match quality
	AverageConfidence float64 `json:"average_confidence"`
	ReferenceMatches  int     `json:"reference_matches"`

	// Financial summary
	MatchedAmount   decimal.Decimal `json:"matched_amount"`
	UnmatchedAmount decimal.Decimal `json:"unmatched_amount"`

	// Processing metadata
	ProcessingDuration time.Duration `json:"processing_duration"`
	DateRange          *DateRange    `json:"date_range,omitempty"`
}

// DateRange represents an inclusive date range filter
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether a date falls inside the range. A zero Start or End
// leaves that side unbounded.
func (r *DateRange) Contains(date time.Time) bool {
	if r == nil {
		return true
	}
	if !r.Start.IsZero() && date.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && date.After(r.End) {
		return false
	}
	return true
}

// MatchRate returns the fraction of pending transactions matched
// automatically, between 0 and 1
func (s *RunSummary) MatchRate() float64 {
	if s.PendingTransactions == 0 {
		return 0
	}
	return float64(s.AutoMatched) / float64(s.PendingTransactions)
}
