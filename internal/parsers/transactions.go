package parsers

import (
	"fmt"

	"bank-matching-service/internal/models"
	apperrors "bank-matching-service/pkg/errors"
)

// TransactionParserConfig configures column mapping for bank transaction CSV
// files
type TransactionParserConfig struct {
	IDColumn          string            `json:"id_column"`
	DateColumn        string            `json:"date_column"`
	AmountColumn      string            `json:"amount_column"`
	DescriptionColumn string            `json:"description_column"`
	ReferenceColumn   string            `json:"reference_column"`
	StatusColumn      string            `json:"status_column"`
	HasHeader         bool              `json:"has_header"`
	Delimiter         rune              `json:"delimiter"`
	ColumnAliases     map[string]string `json:"column_aliases,omitempty"`
}

// DefaultTransactionParserConfig returns the standard transaction CSV layout
func DefaultTransactionParserConfig() *TransactionParserConfig {
	return &TransactionParserConfig{
		IDColumn:          "id",
		DateColumn:        "date",
		AmountColumn:      "amount",
		DescriptionColumn: "description",
		ReferenceColumn:   "reference",
		StatusColumn:      "status",
		HasHeader:         true,
		Delimiter:         ',',
		ColumnAliases: map[string]string{
			"transaction_id":   "id",
			"tx_id":            "id",
			"transaction_date": "date",
			"value_date":       "date",
			"amt":              "amount",
			"value":            "amount",
			"label":            "description",
			"libelle":          "description",
			"ref":              "reference",
			"state":            "status",
		},
	}
}

// Validate checks the parser configuration
func (c *TransactionParserConfig) Validate() error {
	if c.IDColumn == "" || c.DateColumn == "" || c.AmountColumn == "" {
		return fmt.Errorf("id, date and amount columns are required")
	}
	if c.Delimiter == 0 {
		return fmt.Errorf("delimiter cannot be empty")
	}
	return nil
}

// TransactionParser reads bank transactions from CSV files
type TransactionParser struct {
	config *TransactionParserConfig
}

// NewTransactionParser creates a parser with the given configuration
func NewTransactionParser(config *TransactionParserConfig) (*TransactionParser, error) {
	if config == nil {
		config = DefaultTransactionParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, apperrors.ConfigurationError("transaction parser", config, err)
	}
	return &TransactionParser{config: config}, nil
}

// ParseFile reads all bank transactions from a CSV file. Malformed rows are
// returned as row errors alongside the successfully parsed transactions.
func (p *TransactionParser) ParseFile(path string) ([]*models.BankTransaction, []*apperrors.MatcherError, error) {
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

		required := []string{p.config.IDColumn, p.config.DateColumn, p.config.AmountColumn}
		cm, err = buildColumnMap(header, required, p.config.ColumnAliases)
		if err != nil {
			return nil, nil, apperrors.ParseError(apperrors.CodeMissingColumn, path, 1, fmt.Sprint(required), "", err)
		}
	} else {
		// Positional layout: id, date, amount, description, reference, status
		cm = columnMap{
			p.config.IDColumn:          0,
			p.config.DateColumn:        1,
			p.config.AmountColumn:      2,
			p.config.DescriptionColumn: 3,
			p.config.ReferenceColumn:   4,
			p.config.StatusColumn:      5,
		}
	}

	var transactions []*models.BankTransaction
	rowErrors := readRows(reader, startLine, func(line int, row []string) *apperrors.MatcherError {
		tx, err := models.CreateBankTransactionFromCSV(
			cm.field(row, p.config.IDColumn),
			cm.field(row, p.config.DateColumn),
			cm.field(row, p.config.AmountColumn),
			cm.field(row, p.config.DescriptionColumn),
			cm.field(row, p.config.ReferenceColumn),
			cm.field(row, p.config.StatusColumn),
		)
		if err != nil {
			return apperrors.ParseError(apperrors.CodeInvalidData, path, line,
				"", cm.field(row, p.config.IDColumn), err)
		}

		transactions = append(transactions, tx)
		return nil
	})

	return transactions, rowErrors, nil
}
