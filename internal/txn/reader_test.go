package txn_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/txn"
)

const sampleCSV = `Date,Description,Category,Amount
2024-04-05,Salary credit,Income,85000
2024-04-12,LIC premium,Insurance,-12000
2024-05-02,Rent payment,Housing,-25000
2024-05-18,Mutual fund SIP,Investment,-10000
`

func TestReadStatement_CSV(t *testing.T) {
	st, err := txn.ReadStatement("statement.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "description", "category", "amount"}, st.Columns)
	assert.Len(t, st.Rows, 4)
	assert.Equal(t, "Salary credit", st.Rows[0][1])
}

func TestReadStatement_CSV_HeadersNormalized(t *testing.T) {
	csv := "  TXN Date , AMOUNT \n2024-01-01,100\n"
	st, err := txn.ReadStatement("bank.csv", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"txn date", "amount"}, st.Columns)
}

func TestReadStatement_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Category", "Amount"},
		{"2024-04-05", "Income", 85000},
		{"2024-04-12", "Insurance", -12000},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	st, err := txn.ReadStatement("statement.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "category", "amount"}, st.Columns)
	assert.Len(t, st.Rows, 2)
	assert.Equal(t, "Income", st.Rows[0][1])
}

func TestReadStatement_UnsupportedExtension(t *testing.T) {
	_, err := txn.ReadStatement("statement.pdf", strings.NewReader("data"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestReadStatement_EmptyFile(t *testing.T) {
	_, err := txn.ReadStatement("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrStatementEmpty)
}

func TestReadStatement_HeaderOnly(t *testing.T) {
	_, err := txn.ReadStatement("header.csv", strings.NewReader("Date,Amount\n"))
	assert.ErrorIs(t, err, domain.ErrStatementEmpty)
}

func TestStatement_ColumnIndex(t *testing.T) {
	st, err := txn.ReadStatement("s.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 0, st.ColumnIndex("date"))
	assert.Equal(t, 3, st.ColumnIndex("amount", "value"))
	// "description" appears before "category" in the header, first match wins
	assert.Equal(t, 1, st.ColumnIndex("category", "type", "description"))
	assert.Equal(t, -1, st.ColumnIndex("balance"))
}
