// Package reconciler orchestrates a full matching run: loading bank
// transactions and accounting entries, running the matching pipeline, and
// assembling the result that reporters and callers consume.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"bank-matching-service/internal/engine"
	"bank-matching-service/internal/models"
	"bank-matching-service/internal/parsers"
	apperrors "bank-matching-service/pkg/errors"
	"bank-matching-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchService orchestrates the complete matching process
type MatchService struct {
	transactionParser *parsers.TransactionParser
	entryParser       *parsers.EntryParser
	engine            *engine.Engine
	config            *Config
	log               logger.Logger
}

// Config holds configuration options for the matching service
type Config struct {
	// Date range filtering; nil bounds leave the side open
	StartDate *time.Time
	EndDate   *time.Time

	// SuggestOnly computes ranked suggestions for every pending
	// transaction without accepting anything automatically
	SuggestOnly bool

	// IncludeUnmatched controls whether unmatched records are carried in
	// the result; summaries always count them
	IncludeUnmatched bool
}

// DefaultConfig returns a default configuration for the matching service
func DefaultConfig() *Config {
	return &Config{
		IncludeUnmatched: true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return fmt.Errorf("start date must be before end date")
	}
	return nil
}

// MatchRequest represents a file-based matching request
type MatchRequest struct {
	TransactionsFile  string
	EntriesFile       string
	TransactionConfig *parsers.TransactionParserConfig
	EntryConfig       *parsers.EntryParserConfig
}

// Validate validates the matching request
func (r *MatchRequest) Validate() error {
	if r.TransactionsFile == "" {
		return fmt.Errorf("transactions file path is required")
	}
	if r.EntriesFile == "" {
		return fmt.Errorf("entries file path is required")
	}
	return nil
}

// NewMatchService creates a matching service from parser, engine and service
// configurations. Nil configurations fall back to defaults.
func NewMatchService(
	transactionConfig *parsers.TransactionParserConfig,
	entryConfig *parsers.EntryParserConfig,
	matchingConfig *engine.MatchingConfig,
	config *Config,
) (*MatchService, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	transactionParser, err := parsers.NewTransactionParser(transactionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction parser: %w", err)
	}

	entryParser, err := parsers.NewEntryParser(entryConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry parser: %w", err)
	}

	if matchingConfig != nil {
		if err := matchingConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid matching configuration: %w", err)
		}
	}

	return &MatchService{
		transactionParser: transactionParser,
		entryParser:       entryParser,
		engine:            engine.New(matchingConfig),
		config:            config,
		log:               logger.WithComponent("reconciler"),
	}, nil
}

// Run parses both input files and performs a complete matching run
func (s *MatchService) Run(ctx context.Context, request *MatchRequest) (*MatchRunResult, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	s.log.WithFields(logger.Fields{
		"transactions_file": request.TransactionsFile,
		"entries_file":      request.EntriesFile,
	}).Info("starting matching run")

	// Per-request parser overrides apply to this run only
	transactionParser := s.transactionParser
	entryParser := s.entryParser
	if request.TransactionConfig != nil {
		p, err := parsers.NewTransactionParser(request.TransactionConfig)
		if err != nil {
			return nil, err
		}
		transactionParser = p
	}
	if request.EntryConfig != nil {
		p, err := parsers.NewEntryParser(request.EntryConfig)
		if err != nil {
			return nil, err
		}
		entryParser = p
	}

	transactions, txErrors, err := transactionParser.ParseFile(request.TransactionsFile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, entryErrors, err := entryParser.ParseFile(request.EntriesFile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.WithFields(logger.Fields{
		"transactions": len(transactions),
		"entries":      len(entries),
		"row_errors":   len(txErrors) + len(entryErrors),
	}).Debug("input files parsed")

	result, err := s.Match(ctx, transactions, entries)
	if err != nil {
		return nil, err
	}

	// Fold parse-level row errors into the run warnings
	all := append(append([]*apperrors.MatcherError{}, txErrors...), entryErrors...)
	all = append(all, result.Warnings.Errors...)
	result.Warnings = apperrors.NewErrorSummary(all)
	result.Summary.SkippedRecords = result.Warnings.Total

	return result, nil
}

// Match runs the matching pipeline over in-memory records. Malformed records
// are skipped and reported in the result warnings; they never abort the run.
// An empty result is a valid result.
func (s *MatchService) Match(ctx context.Context, transactions []*models.BankTransaction, entries []*models.AccountingEntry) (*MatchRunResult, error) {
	startTime := time.Now()

	dateRange := s.dateRange()
	transactions, entries = s.applyDateRange(transactions, entries, dateRange)

	gen := s.engine.GenerateCandidates(transactions, entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := s.engine.ScoreCandidates(gen.Candidates)
	best := s.engine.BestPerTransaction(scored)

	var assignment *engine.AssignmentResult
	if s.config.SuggestOnly {
		// Suggestion mode accepts nothing; every transaction with
		// candidates goes to the review queue so reporters list its
		// ranked suggestions
		assignment = &engine.AssignmentResult{
			NeedsReview: append([]string(nil), best.TransactionOrder...),
		}
	} else {
		assignment = s.engine.ResolveAutomatic(best)
	}

	matchedAt := time.Now().UTC()
	accepted := make([]*models.MatchAssignment, 0, len(assignment.Accepted))
	acceptedTx := make(map[string]bool, len(assignment.Accepted))
	consumedEntries := make(map[string]bool, len(assignment.Accepted))
	for _, a := range assignment.Accepted {
		final := *a
		final.ID = uuid.NewString()
		final.MatchedAt = matchedAt
		accepted = append(accepted, &final)
		acceptedTx[a.TransactionID] = true
		consumedEntries[a.EntryID] = true
	}

	// Suggestions cover every pending transaction that still has candidates
	// but no accepted assignment
	suggestions := make(map[string][]string)
	for txID, ranked := range s.engine.SuggestAll(scored) {
		if acceptedTx[txID] {
			continue
		}
		suggestions[txID] = ranked
	}

	result := &MatchRunResult{
		Summary:     &RunSummary{DateRange: dateRange},
		Accepted:    accepted,
		NeedsReview: assignment.NeedsReview,
		Suggestions: suggestions,
		Warnings:    apperrors.NewErrorSummary(gen.Warnings),
		ProcessedAt: startTime,
	}

	s.collectUnmatched(result, transactions, entries, acceptedTx, consumedEntries)
	s.buildSummary(result, transactions, entries)
	result.Summary.ProcessingDuration = time.Since(startTime)

	s.log.WithFields(logger.Fields{
		"auto_matched": result.Summary.AutoMatched,
		"needs_review": result.Summary.NeedsReview,
		"unmatched_tx": result.Summary.UnmatchedTransactions,
		"duration":     result.Summary.ProcessingDuration.String(),
	}).Info("matching run complete")

	return result, nil
}

// AcceptManual validates a human-confirmed match and returns the finalized
// assignment. Sign compatibility is still enforced; amount tolerance and the
// date window are not.
func (s *MatchService) AcceptManual(transaction *models.BankTransaction, entry *models.AccountingEntry) (*models.MatchAssignment, error) {
	assignment, err := s.engine.AcceptManualMatch(&engine.ManualMatchRequest{
		Transaction: transaction,
		Entry:       entry,
	})
	if err != nil {
		s.log.WithError(err).WithFields(logger.Fields{
			"transaction_id": safeID(transaction),
			"entry_id":       safeEntryID(entry),
		}).Warn("manual match rejected")
		return nil, err
	}

	s.log.WithFields(logger.Fields{
		"transaction_id": assignment.TransactionID,
		"entry_id":       assignment.EntryID,
	}).Info("manual match accepted")

	return assignment, nil
}

// Engine exposes the underlying matching engine, mainly for suggestion
// queries against an existing candidate list
func (s *MatchService) Engine() *engine.Engine {
	return s.engine
}

func (s *MatchService) dateRange() *DateRange {
	if s.config.StartDate == nil && s.config.EndDate == nil {
		return nil
	}
	r := &DateRange{}
	if s.config.StartDate != nil {
		r.Start = *s.config.StartDate
	}
	if s.config.EndDate != nil {
		r.End = *s.config.EndDate
	}
	return r
}

func (s *MatchService) applyDateRange(
	transactions []*models.BankTransaction,
	entries []*models.AccountingEntry,
	dateRange *DateRange,
) ([]*models.BankTransaction, []*models.AccountingEntry) {
	if dateRange == nil {
		return transactions, entries
	}

	filteredTx := make([]*models.BankTransaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx != nil && dateRange.Contains(tx.Date) {
			filteredTx = append(filteredTx, tx)
		}
	}

	filteredEntries := make([]*models.AccountingEntry, 0, len(entries))
	for _, entry := range entries {
		if entry != nil && dateRange.Contains(entry.Date) {
			filteredEntries = append(filteredEntries, entry)
		}
	}

	return filteredTx, filteredEntries
}

func (s *MatchService) collectUnmatched(
	result *MatchRunResult,
	transactions []*models.BankTransaction,
	entries []*models.AccountingEntry,
	acceptedTx map[string]bool,
	consumedEntries map[string]bool,
) {
	if !s.config.IncludeUnmatched {
		return
	}

	for _, tx := range transactions {
		if tx == nil || tx.Validate() != nil || !tx.IsPending() {
			continue
		}
		if !acceptedTx[tx.ID] {
			result.UnmatchedTransactions = append(result.UnmatchedTransactions, tx)
		}
	}

	for _, entry := range entries {
		if entry == nil || entry.Validate() != nil || entry.Reconciled {
			continue
		}
		if !consumedEntries[entry.ID] {
			result.UnmatchedEntries = append(result.UnmatchedEntries, entry)
		}
	}
}

func (s *MatchService) buildSummary(
	result *MatchRunResult,
	transactions []*models.BankTransaction,
	entries []*models.AccountingEntry,
) {
	summary := result.Summary

	summary.TotalTransactions = len(transactions)
	summary.TotalEntries = len(entries)

	pendingAmount := decimal.Zero
	pendingByID := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx == nil || tx.Validate() != nil || !tx.IsPending() {
			continue
		}
		summary.PendingTransactions++
		pendingByID[tx.ID] = tx.BankAmount()
		pendingAmount = pendingAmount.Add(tx.BankAmount())
	}

	for _, entry := range entries {
		if entry == nil || entry.Validate() != nil {
			continue
		}
		if !entry.Reconciled {
			summary.UnreconciledEntries++
		}
	}

	matchedAmount := decimal.Zero
	totalConfidence := 0.0
	for _, a := range result.Accepted {
		matchedAmount = matchedAmount.Add(pendingByID[a.TransactionID])
		totalConfidence += a.ConfidenceScore
		for _, reason := range a.Reasons {
			if reason == "reference match" {
				summary.ReferenceMatches++
				break
			}
		}
	}

	summary.AutoMatched = len(result.Accepted)
	summary.NeedsReview = len(result.NeedsReview)
	summary.UnmatchedTransactions = summary.PendingTransactions - summary.AutoMatched
	summary.UnmatchedEntries = summary.UnreconciledEntries - summary.AutoMatched
	summary.MatchedAmount = matchedAmount
	summary.UnmatchedAmount = pendingAmount.Sub(matchedAmount)
	summary.SkippedRecords = result.Warnings.Total

	if summary.AutoMatched > 0 {
		summary.AverageConfidence = totalConfidence / float64(summary.AutoMatched)
	}
}

func safeID(tx *models.BankTransaction) string {
	if tx == nil {
		return ""
	}
	return tx.ID
}

func safeEntryID(entry *models.AccountingEntry) string {
	if entry == nil {
		return ""
	}
	return entry.ID
}
