// Package reporter renders matching run results for human and machine
// consumption.
//
// Supported output formats:
//   - Console: human-readable summary and review queue for terminal display
//   - JSON: structured data for programmatic consumption
//   - CSV: flat rows for spreadsheet review
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"bank-matching-service/internal/models"
	"bank-matching-service/internal/reconciler"
	apperrors "bank-matching-service/pkg/errors"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeAccepted    bool `json:"include_accepted"`
	IncludeSuggestions bool `json:"include_suggestions"`
	IncludeUnmatched   bool `json:"include_unmatched"`
	IncludeWarnings    bool `json:"include_warnings"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`

	// Console options
	SortByAmount bool `json:"sort_by_amount"`
	MaxListItems int  `json:"max_list_items"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:             FormatConsole,
		IncludeAccepted:    true,
		IncludeSuggestions: true,
		IncludeUnmatched:   true,
		IncludeWarnings:    true,
		CSVDelimiter:       ',',
		CSVHeaders:         true,
		MaxListItems:       10,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxListItems < 0 {
		return fmt.Errorf("max list items cannot be negative: %d", c.MaxListItems)
	}
	return nil
}

// ReportGenerator renders matching run results in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the specified
// configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders a matching run result to the provided writer
func (rg *ReportGenerator) GenerateReport(result *reconciler.MatchRunResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("matching result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	case FormatCSV:
		return rg.generateCSVReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) generateConsoleReport(result *reconciler.MatchRunResult, writer io.Writer) error {
	fmt.Fprintf(writer, "MATCHING REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", result.ProcessedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Processing Duration: %v\n\n", result.Summary.ProcessingDuration)

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	rg.printSummary(result.Summary, writer)
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeAccepted && len(result.Accepted) > 0 {
		fmt.Fprintf(writer, "=== AUTOMATIC MATCHES ===\n")
		rg.printAccepted(result.Accepted, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeSuggestions && len(result.NeedsReview) > 0 {
		fmt.Fprintf(writer, "=== NEEDS REVIEW ===\n")
		rg.printReviewQueue(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeUnmatched && len(result.UnmatchedTransactions) > 0 {
		fmt.Fprintf(writer, "=== UNMATCHED TRANSACTIONS ===\n")
		rg.printUnmatchedTransactions(result.UnmatchedTransactions, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeUnmatched && len(result.UnmatchedEntries) > 0 {
		fmt.Fprintf(writer, "=== UNMATCHED ENTRIES ===\n")
		rg.printUnmatchedEntries(result.UnmatchedEntries, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeWarnings && result.Warnings != nil && result.Warnings.Total > 0 {
		fmt.Fprintf(writer, "=== SKIPPED RECORDS ===\n")
		rg.printWarnings(result, writer)
	}

	return nil
}

func (rg *ReportGenerator) generateJSONReport(result *reconciler.MatchRunResult, writer io.Writer) error {
	filtered := rg.filterResultForOutput(result)

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(filtered)
}

func (rg *ReportGenerator) generateCSVReport(result *reconciler.MatchRunResult, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Type",
			"Transaction_ID",
			"Entry_ID",
			"Amount",
			"Date",
			"Confidence_Score",
			"Method",
			"Notes",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	if rg.config.IncludeAccepted {
		for _, a := range result.Accepted {
			record := []string{
				"Accepted Match",
				a.TransactionID,
				a.EntryID,
				"",
				a.MatchedAt.Format("2006-01-02"),
				fmt.Sprintf("%.1f", a.ConfidenceScore),
				string(a.Method),
				strings.Join(a.Reasons, "; "),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write accepted match record: %w", err)
			}
		}
	}

	if rg.config.IncludeSuggestions {
		for _, txID := range result.NeedsReview {
			suggested := strings.Join(result.Suggestions[txID], "; ")
			record := []string{
				"Needs Review",
				txID,
				"",
				"",
				"",
				"",
				"",
				fmt.Sprintf("suggested entries: %s", suggested),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write review record: %w", err)
			}
		}
	}

	if rg.config.IncludeUnmatched {
		for _, tx := range result.UnmatchedTransactions {
			record := []string{
				"Unmatched Transaction",
				tx.ID,
				"",
				tx.Amount.StringFixed(2),
				tx.Date.Format("2006-01-02"),
				"",
				"",
				"no candidate entry found",
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write unmatched transaction record: %w", err)
			}
		}

		for _, entry := range result.UnmatchedEntries {
			record := []string{
				"Unmatched Entry",
				"",
				entry.ID,
				entry.Amount().StringFixed(2),
				entry.Date.Format("2006-01-02"),
				"",
				"",
				"no candidate transaction found",
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write unmatched entry record: %w", err)
			}
		}
	}

	return nil
}

// Console formatting helpers

func (rg *ReportGenerator) printSummary(summary *reconciler.RunSummary, writer io.Writer) {
	fmt.Fprintf(writer, "Transactions:\n")
	fmt.Fprintf(writer, "  Total:        %d\n", summary.TotalTransactions)
	fmt.Fprintf(writer, "  Pending:      %d\n", summary.PendingTransactions)
	fmt.Fprintf(writer, "  Auto-matched: %d (%.1f%%)\n",
		summary.AutoMatched,
		rg.calculatePercentage(summary.AutoMatched, summary.PendingTransactions))
	fmt.Fprintf(writer, "  Needs review: %d\n", summary.NeedsReview)
	fmt.Fprintf(writer, "  Unmatched:    %d\n", summary.UnmatchedTransactions)

	fmt.Fprintf(writer, "\nEntries:\n")
	fmt.Fprintf(writer, "  Total:        %d\n", summary.TotalEntries)
	fmt.Fprintf(writer, "  Unreconciled: %d\n", summary.UnreconciledEntries)
	fmt.Fprintf(writer, "  Unmatched:    %d\n", summary.UnmatchedEntries)

	fmt.Fprintf(writer, "\nMatch quality:\n")
	fmt.Fprintf(writer, "  Average confidence: %.1f\n", summary.AverageConfidence)
	fmt.Fprintf(writer, "  Reference matches:  %d\n", summary.ReferenceMatches)

	fmt.Fprintf(writer, "\nAmounts:\n")
	fmt.Fprintf(writer, "  Matched:   %s\n", summary.MatchedAmount.StringFixed(2))
	fmt.Fprintf(writer, "  Unmatched: %s\n", summary.UnmatchedAmount.StringFixed(2))

	if summary.SkippedRecords > 0 {
		fmt.Fprintf(writer, "\nSkipped records: %d\n", summary.SkippedRecords)
	}
}

func (rg *ReportGenerator) printAccepted(accepted []*models.MatchAssignment, writer io.Writer) {
	fmt.Fprintf(writer, "Total Automatic Matches: %d\n\n", len(accepted))

	for i, a := range accepted {
		fmt.Fprintf(writer, "  %d. %s -> %s (confidence %.1f): %s\n",
			i+1, a.TransactionID, a.EntryID, a.ConfidenceScore, strings.Join(a.Reasons, ", "))

		if rg.truncated(i, len(accepted), writer) {
			break
		}
	}
}

func (rg *ReportGenerator) printReviewQueue(result *reconciler.MatchRunResult, writer io.Writer) {
	fmt.Fprintf(writer, "Transactions Needing Review: %d\n\n", len(result.NeedsReview))

	for i, txID := range result.NeedsReview {
		suggested := result.Suggestions[txID]
		if len(suggested) == 0 {
			fmt.Fprintf(writer, "  %d. %s: no remaining candidates\n", i+1, txID)
		} else {
			fmt.Fprintf(writer, "  %d. %s: suggested entries %s\n", i+1, txID, strings.Join(suggested, ", "))
		}

		if rg.truncated(i, len(result.NeedsReview), writer) {
			break
		}
	}
}

func (rg *ReportGenerator) printUnmatchedTransactions(transactions []*models.BankTransaction, writer io.Writer) {
	if rg.config.SortByAmount {
		sorted := make([]*models.BankTransaction, len(transactions))
		copy(sorted, transactions)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].BankAmount().GreaterThan(sorted[j].BankAmount())
		})
		transactions = sorted
	}

	fmt.Fprintf(writer, "Total Unmatched Transactions: %d\n\n", len(transactions))

	for i, tx := range transactions {
		fmt.Fprintf(writer, "  %d. ID: %s, Amount: %s, Date: %s, %s\n",
			i+1, tx.ID, tx.Amount.StringFixed(2), tx.Date.Format("2006-01-02"), tx.Description)

		if rg.truncated(i, len(transactions), writer) {
			break
		}
	}
}

func (rg *ReportGenerator) printUnmatchedEntries(entries []*models.AccountingEntry, writer io.Writer) {
	if rg.config.SortByAmount {
		sorted := make([]*models.AccountingEntry, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Amount().GreaterThan(sorted[j].Amount())
		})
		entries = sorted
	}

	fmt.Fprintf(writer, "Total Unmatched Entries: %d\n\n", len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "  %d. ID: %s, Amount: %s, Date: %s, %s\n",
			i+1, entry.ID, entry.Amount().StringFixed(2), entry.Date.Format("2006-01-02"), entry.Description)

		if rg.truncated(i, len(entries), writer) {
			break
		}
	}
}

func (rg *ReportGenerator) printWarnings(result *reconciler.MatchRunResult, writer io.Writer) {
	fmt.Fprintf(writer, "Total Skipped: %d\n", result.Warnings.Total)

	categories := make([]string, 0, len(result.Warnings.ByCategory))
	for category := range result.Warnings.ByCategory {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(writer, "  %s: %d\n", category, result.Warnings.ByCategory[apperrors.ErrorCategory(category)])
	}

	if len(result.Warnings.SampleErrors) > 0 {
		fmt.Fprintf(writer, "\nSamples:\n")
		for _, sample := range result.Warnings.SampleErrors {
			fmt.Fprintf(writer, "  - %s\n", sample.Message)
		}
	}
}

// truncated prints a continuation marker and reports whether the list output
// should stop
func (rg *ReportGenerator) truncated(index, total int, writer io.Writer) bool {
	limit := rg.config.MaxListItems
	if limit == 0 || total <= limit {
		return false
	}
	if index >= limit-1 {
		fmt.Fprintf(writer, "  ... and %d more\n", total-limit)
		return true
	}
	return false
}

func (rg *ReportGenerator) calculatePercentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}

func (rg *ReportGenerator) filterResultForOutput(result *reconciler.MatchRunResult) map[string]interface{} {
	output := map[string]interface{}{
		"summary":      result.Summary,
		"processed_at": result.ProcessedAt,
	}

	if rg.config.IncludeAccepted && result.Accepted != nil {
		output["accepted"] = result.Accepted
	}

	if rg.config.IncludeSuggestions {
		if result.NeedsReview != nil {
			output["needs_review"] = result.NeedsReview
		}
		if result.Suggestions != nil {
			output["suggestions"] = result.Suggestions
		}
	}

	if rg.config.IncludeUnmatched {
		if result.UnmatchedTransactions != nil {
			output["unmatched_transactions"] = result.UnmatchedTransactions
		}
		if result.UnmatchedEntries != nil {
			output["unmatched_entries"] = result.UnmatchedEntries
		}
	}

	if rg.config.IncludeWarnings && result.Warnings != nil && result.Warnings.Total > 0 {
		output["warnings"] = result.Warnings
	}

	return output
}

// UpdateConfiguration updates the report generator configuration
func (rg *ReportGenerator) UpdateConfiguration(config *ReportConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid report configuration: %w", err)
	}

	rg.config = config
	return nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
