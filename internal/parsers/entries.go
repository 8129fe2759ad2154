package parsers

import (
	"fmt"

	"bank-matching-service/internal/models"
	apperrors "bank-matching-service/pkg/errors"
)

// EntryParserConfig configures column mapping for accounting entry CSV files
type EntryParserConfig struct {
	IDColumn              string            `json:"id_column"`
	DateColumn            string            `json:"date_column"`
	TotalDebitColumn      string            `json:"total_debit_column"`
	TotalCreditColumn     string            `json:"total_credit_column"`
	DescriptionColumn     string            `json:"description_column"`
	ReferenceNumberColumn string            `json:"reference_number_column"`
	SourceReferenceColumn string            `json:"source_reference_column"`
	ReconciledColumn      string            `json:"reconciled_column"`
	HasHeader             bool              `json:"has_header"`
	Delimiter             rune              `json:"delimiter"`
	ColumnAliases         map[string]string `json:"column_aliases,omitempty"`
}

// DefaultEntryParserConfig returns the standard entry CSV layout
func DefaultEntryParserConfig() *EntryParserConfig {
	return &EntryParserConfig{
		IDColumn:              "id",
		DateColumn:            "date",
		TotalDebitColumn:      "total_debit",
		TotalCreditColumn:     "total_credit",
		DescriptionColumn:     "description",
		ReferenceNumberColumn: "reference_number",
		SourceReferenceColumn: "source_reference",
		ReconciledColumn:      "reconciled",
		HasHeader:             true,
		Delimiter:             ',',
		ColumnAliases: map[string]string{
			"entry_id":   "id",
			"entry_date": "date",
			"debit":      "total_debit",
			"credit":     "total_credit",
			"label":      "description",
			"libelle":    "description",
			"reference":  "reference_number",
			"piece":      "source_reference",
			"lettered":   "reconciled",
		},
	}
}

// Validate checks the parser configuration
func (c *EntryParserConfig) Validate() error {
	if c.IDColumn == "" || c.DateColumn == "" {
		return fmt.Errorf("id and date columns are required")
	}
	if c.TotalDebitColumn == "" && c.TotalCreditColumn == "" {
		return fmt.Errorf("at least one of total debit or total credit columns is required")
	}
	if c.Delimiter == 0 {
		return fmt.Errorf("delimiter cannot be empty")
	}
	return nil
}

// EntryParser reads accounting entries from CSV files
type EntryParser struct {
	config *EntryParserConfig
}

// NewEntryParser creates a parser with the given configuration
func NewEntryParser(config *EntryParserConfig) (*EntryParser, error) {
	if config == nil {
		config = DefaultEntryParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, apperrors.ConfigurationError("entry parser", config, err)
	}
	return &EntryParser{config: config}, nil
}

// ParseFile reads all accounting entries from a CSV file. Malformed rows are
// returned as row errors alongside the successfully parsed entries.
func (p *EntryParser) ParseFile(path string) ([]*models.AccountingEntry, []*apperrors.MatcherError, error) {
	file, reader, err := openCSV(path, p.config.Delimiter)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	startLine := 0
	var cm columnMap
	if p.config.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, nil, apperrors.ParseError(apperrors.CodeInvalidFormat, path, 1, "", "", err)
		}
		startLine = 1

		required := []string{p.config.IDColumn, p.config.DateColumn}
		cm, err = buildColumnMap(header, required, p.config.ColumnAliases)
		if err != nil {
			return nil, nil, apperrors.ParseError(apperrors.CodeMissingColumn, path, 1, fmt.Sprint(required), "", err)
		}
	} else {
		// Positional layout: id, date, debit, credit, description,
		// reference_number, source_reference, reconciled
		cm = columnMap{
			p.config.IDColumn:              0,
			p.config.DateColumn:            1,
			p.config.TotalDebitColumn:      2,
			p.config.TotalCreditColumn:     3,
			p.config.DescriptionColumn:     4,
			p.config.ReferenceNumberColumn: 5,
			p.config.SourceReferenceColumn: 6,
			p.config.ReconciledColumn:      7,
		}
	}

	var entries []*models.AccountingEntry
	rowErrors := readRows(reader, startLine, func(line int, row []string) *apperrors.MatcherError {
		entry, err := models.CreateAccountingEntryFromCSV(
			cm.field(row, p.config.IDColumn),
			cm.field(row, p.config.DateColumn),
			cm.field(row, p.config.TotalDebitColumn),
			cm.field(row, p.config.TotalCreditColumn),
			cm.field(row, p.config.DescriptionColumn),
			cm.field(row, p.config.ReferenceNumberColumn),
			cm.field(row, p.config.SourceReferenceColumn),
			cm.field(row, p.config.ReconciledColumn),
		)
		if err != nil {
			return apperrors.ParseError(apperrors.CodeInvalidData, path, line,
				"", cm.field(row, p.config.IDColumn), err)
		}

		entries = append(entries, entry)
		return nil
	})

	return entries, rowErrors, nil
}
