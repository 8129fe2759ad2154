// Package config builds the parser, engine and report configurations consumed
// by the CLI from flag values.
package config

import (
	"bank-matching-service/internal/engine"
	"bank-matching-service/internal/parsers"
	"bank-matching-service/internal/reconciler"
	"bank-matching-service/internal/reporter"

	"github.com/shopspring/decimal"
)

// CreateTransactionParserConfig creates the transaction parser configuration
// used by the CLI
func CreateTransactionParserConfig() *parsers.TransactionParserConfig {
	return parsers.DefaultTransactionParserConfig()
}

// CreateEntryParserConfig creates the entry parser configuration used by the
// CLI
func CreateEntryParserConfig() *parsers.EntryParserConfig {
	return parsers.DefaultEntryParserConfig()
}

// CreateMatchingConfig creates a matching configuration with CLI overrides
// applied. Negative values leave the corresponding default untouched.
func CreateMatchingConfig(amountTolerance float64, dateWindowDays int, minConfidence float64, maxSuggestions int) *engine.MatchingConfig {
	config := engine.DefaultMatchingConfig()

	if amountTolerance >= 0 {
		config.AmountTolerance = decimal.NewFromFloat(amountTolerance)
	}
	if dateWindowDays >= 0 {
		config.DateWindowDays = dateWindowDays
	}
	if minConfidence >= 0 {
		config.MinConfidence = minConfidence
	}
	if maxSuggestions > 0 {
		config.MaxSuggestions = maxSuggestions
	}

	return config
}

// CreateServiceConfig creates a matching service configuration
func CreateServiceConfig(suggestOnly bool) *reconciler.Config {
	config := reconciler.DefaultConfig()
	config.SuggestOnly = suggestOnly
	return config
}

// CreateReportConfig creates a report configuration for the specified output
// format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
		// CSV is row data; warnings belong in the console report
		config.IncludeWarnings = false
	default:
		config.Format = reporter.FormatConsole
	}

	return config
}
