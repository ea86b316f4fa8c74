// Package txn reads uploaded transaction statements and derives summary
// statistics for tax analysis.
package txn

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"taxsarthi/internal/domain"
)

// Statement is a parsed transaction file. Column names are lowercased and
// trimmed; every cell is kept as its raw string.
type Statement struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the first column whose name contains any
// of the given terms, or -1.
func (s *Statement) ColumnIndex(terms ...string) int {
	for i, col := range s.Columns {
		for _, term := range terms {
			if strings.Contains(col, term) {
				return i
			}
		}
	}
	return -1
}

// Cell returns the value at (row, col), tolerating short rows.
func (s *Statement) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ReadStatement parses a CSV or Excel statement identified by its file name.
func ReadStatement(filename string, r io.Reader) (*Statement, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch domain.AllowedStatementExtensions[ext] {
	case domain.StatementTypeCSV:
		return readCSV(r)
	case domain.StatementTypeXLSX, domain.StatementTypeXLS:
		return readExcel(r)
	default:
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFile, ext)
	}
}

func readCSV(r io.Reader) (*Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return fromRecords(records)
}

func readExcel(r io.Reader) (*Statement, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrStatementEmpty
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows)
}

func fromRecords(records [][]string) (*Statement, error) {
	if len(records) == 0 {
		return nil, domain.ErrStatementEmpty
	}

	columns := make([]string, len(records[0]))
	for i, col := range records[0] {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, domain.ErrStatementEmpty
	}

	return &Statement{Columns: columns, Rows: rows}, nil
}
