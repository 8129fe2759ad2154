package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bank-matching-service/cmd/bankmatch/config"
	"bank-matching-service/internal/reconciler"
	"bank-matching-service/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the match command
var (
	transactionsFile string
	entriesFile      string
	outputFormat     string
	outputFile       string
	startDate        string
	endDate          string
	amountTolerance  float64
	dateWindowDays   int
	minConfidence    float64
	maxSuggestions   int
	suggestOnly      bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match bank transactions against accounting entries",
	Long: `Match compares pending bank transactions with unreconciled accounting
entries and accepts unambiguous, high-confidence matches automatically.
Everything else is reported with ranked suggestions for manual review.

This command requires:
- A bank transaction file (CSV format)
- An accounting entry file (CSV format)

Examples:
  # Basic matching with default tolerances
  bankmatch match --transactions-file transactions.csv --entries-file entries.csv

  # Date filtering and custom tolerances
  bankmatch match -t tx.csv -e entries.csv \
    --start-date 2024-01-01 --end-date 2024-01-31 \
    --date-window 5 --amount-tolerance 0.05

  # Suggestion mode: rank candidates without accepting anything
  bankmatch match -t tx.csv -e entries.csv --suggest

  # JSON report to a file
  bankmatch match -t tx.csv -e entries.csv --output-format json --output-file report.json`,

	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	// Required flags
	matchCmd.Flags().StringVarP(&transactionsFile, "transactions-file", "t", "", "path to bank transaction CSV file (required)")
	matchCmd.Flags().StringVarP(&entriesFile, "entries-file", "e", "", "path to accounting entry CSV file (required)")

	// Output flags
	matchCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	matchCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Date filtering flags
	matchCmd.Flags().StringVar(&startDate, "start-date", "", "filter start date (YYYY-MM-DD)")
	matchCmd.Flags().StringVar(&endDate, "end-date", "", "filter end date (YYYY-MM-DD)")

	// Matching configuration flags
	matchCmd.Flags().Float64VarP(&amountTolerance, "amount-tolerance", "a", -1, "amount tolerance in currency units (default 0.01)")
	matchCmd.Flags().IntVarP(&dateWindowDays, "date-window", "d", -1, "date window in calendar days (default 3)")
	matchCmd.Flags().Float64VarP(&minConfidence, "min-confidence", "c", -1, "minimum confidence for automatic acceptance, 0-100 (default 80)")
	matchCmd.Flags().IntVar(&maxSuggestions, "max-suggestions", 0, "maximum ranked suggestions per transaction (default 5)")

	// Mode flags
	matchCmd.Flags().BoolVar(&suggestOnly, "suggest", false, "suggestion mode: rank candidates without accepting matches")

	matchCmd.MarkFlagRequired("transactions-file")
	matchCmd.MarkFlagRequired("entries-file")

	viper.BindPFlag("transactions-file", matchCmd.Flags().Lookup("transactions-file"))
	viper.BindPFlag("entries-file", matchCmd.Flags().Lookup("entries-file"))
	viper.BindPFlag("output-format", matchCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", matchCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("start-date", matchCmd.Flags().Lookup("start-date"))
	viper.BindPFlag("end-date", matchCmd.Flags().Lookup("end-date"))
	viper.BindPFlag("amount-tolerance", matchCmd.Flags().Lookup("amount-tolerance"))
	viper.BindPFlag("date-window", matchCmd.Flags().Lookup("date-window"))
	viper.BindPFlag("min-confidence", matchCmd.Flags().Lookup("min-confidence"))
	viper.BindPFlag("max-suggestions", matchCmd.Flags().Lookup("max-suggestions"))
	viper.BindPFlag("suggest", matchCmd.Flags().Lookup("suggest"))
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	transactionsFile = viper.GetString("transactions-file")
	entriesFile = viper.GetString("entries-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	startDate = viper.GetString("start-date")
	endDate = viper.GetString("end-date")
	amountTolerance = viper.GetFloat64("amount-tolerance")
	dateWindowDays = viper.GetInt("date-window")
	minConfidence = viper.GetFloat64("min-confidence")
	maxSuggestions = viper.GetInt("max-suggestions")
	suggestOnly = viper.GetBool("suggest")

	if transactionsFile == "" {
		return fmt.Errorf("transactions-file is required")
	}
	if entriesFile == "" {
		return fmt.Errorf("entries-file is required")
	}

	if err := validateFileExists(transactionsFile, "transaction file"); err != nil {
		return err
	}
	if err := validateFileExists(entriesFile, "entry file"); err != nil {
		return err
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return fmt.Errorf("invalid start date format. Use YYYY-MM-DD: %w", err)
		}
	}
	if endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			return fmt.Errorf("invalid end date format. Use YYYY-MM-DD: %w", err)
		}
	}

	if startDate != "" && endDate != "" {
		start, _ := time.Parse("2006-01-02", startDate)
		end, _ := time.Parse("2006-01-02", endDate)
		if start.After(end) {
			return fmt.Errorf("start date cannot be after end date")
		}
	}

	if minConfidence > 100 {
		return fmt.Errorf("minimum confidence must be between 0 and 100")
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting matching run...\n")
		fmt.Fprintf(os.Stderr, "Transactions file: %s\n", transactionsFile)
		fmt.Fprintf(os.Stderr, "Entries file: %s\n", entriesFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	matchingConfig := config.CreateMatchingConfig(amountTolerance, dateWindowDays, minConfidence, maxSuggestions)
	serviceConfig := config.CreateServiceConfig(suggestOnly)

	if startDate != "" {
		t, _ := time.Parse("2006-01-02", startDate)
		serviceConfig.StartDate = &t
	}
	if endDate != "" {
		t, _ := time.Parse("2006-01-02", endDate)
		// Set to end of day
		t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		serviceConfig.EndDate = &t
	}

	service, err := reconciler.NewMatchService(
		config.CreateTransactionParserConfig(),
		config.CreateEntryParserConfig(),
		matchingConfig,
		serviceConfig,
	)
	if err != nil {
		return fmt.Errorf("failed to create matching service: %w", err)
	}

	request := &reconciler.MatchRequest{
		TransactionsFile: transactionsFile,
		EntriesFile:      entriesFile,
	}

	result, err := service.Run(ctx, request)
	if err != nil {
		handler := NewCLIErrorHandler()
		os.Exit(handler.HandleError(err))
	}

	reportConfig := config.CreateReportConfig(outputFormat)
	reportGenerator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nMatching completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d transactions and %d entries.\n",
			result.Summary.TotalTransactions, result.Summary.TotalEntries)
		fmt.Fprintf(os.Stderr, "Accepted %d automatic matches, %d need review, %d unmatched.\n",
			result.Summary.AutoMatched, result.Summary.NeedsReview, result.Summary.UnmatchedTransactions)
		if result.Summary.SkippedRecords > 0 {
			fmt.Fprintf(os.Stderr, "Skipped %d malformed records.\n", result.Summary.SkippedRecords)
		}
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", result.Summary.ProcessingDuration)
	}

	return nil
}
