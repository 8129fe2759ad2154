// Package parsers loads bank transactions and accounting entries from CSV
// files with configurable column mapping. Rows that fail to parse are
// collected as errors and reported; a bad row never aborts the file.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "bank-matching-service/pkg/errors"
)

// columnMap resolves configured column names (and their aliases) to indexes
// in the CSV header
type columnMap map[string]int

// openCSV opens a file and returns a csv.Reader configured with the given
// delimiter
func openCSV(path string, delimiter rune) (*os.File, *csv.Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.FileError(apperrors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, nil, apperrors.FileError(apperrors.CodeFilePermission, path, err)
		}
		return nil, nil, apperrors.Wrap(err, apperrors.CategoryFile, apperrors.CodeFileNotFound,
			fmt.Sprintf("failed to open file: %s", path))
	}

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	return file, reader, nil
}

// buildColumnMap maps required column names to header positions, honoring
// aliases. Header comparison is case-insensitive.
func buildColumnMap(header []string, required []string, aliases map[string]string) (columnMap, error) {
	canonical := make(map[string]string, len(aliases))
	for alias, target := range aliases {
		canonical[strings.ToLower(alias)] = target
	}

	// Walk the header left to right so the first column resolving to a name
	// wins, whatever the source file looks like
	cm := make(columnMap)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if target, ok := canonical[name]; ok {
			name = target
		}
		if _, taken := cm[name]; !taken {
			cm[name] = i
		}
	}

	for _, col := range required {
		if _, ok := cm[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("missing required column '%s'", col)
		}
	}

	return cm, nil
}

// field returns the value of a named column in a row, or empty when the
// column is absent or the row is short
func (cm columnMap) field(row []string, name string) string {
	idx, ok := cm[strings.ToLower(name)]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// readRows streams data rows from a reader, invoking handle for each one.
// Returned errors from handle are collected per row; reader-level errors end
// the stream.
func readRows(reader *csv.Reader, startLine int, handle func(line int, row []string) *apperrors.MatcherError) []*apperrors.MatcherError {
	var rowErrors []*apperrors.MatcherError

	line := startLine
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, apperrors.ParseError(
				apperrors.CodeInvalidFormat, "", line, "", "", err))
			continue
		}

		if isBlankRow(row) {
			continue
		}

		if rowErr := handle(line, row); rowErr != nil {
			rowErrors = append(rowErrors, rowErr)
		}
	}

	return rowErrors
}

func isBlankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
