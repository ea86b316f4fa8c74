package txn_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxsarthi/internal/txn"
)

func mustStatement(t *testing.T, csv string) *txn.Statement {
	t.Helper()
	st, err := txn.ReadStatement("statement.csv", strings.NewReader(csv))
	require.NoError(t, err)
	return st
}

func TestSummarize_Basic(t *testing.T) {
	st := mustStatement(t, `Date,Category,Amount
2024-04-05,Income,85000
2024-04-12,Insurance,-12000
2024-05-02,Housing,-25000
2024-05-18,Investment,-10000
`)
	s := txn.Summarize(st)

	assert.Equal(t, 4, s.TotalTransactions)
	assert.Equal(t, []string{"date", "category", "amount"}, s.ColumnsFound)
	assert.Equal(t, "2024-04-05 to 2024-05-18", s.DateRange)
	// 85000 - 12000 - 25000 - 10000 = 38000
	assert.Equal(t, 38000.0, s.TotalAmount)
	assert.Equal(t, 4, s.CategoriesCount)
	assert.Contains(t, s.Categories, "Income")
}

func TestSummarize_TotalAmountIsAbsolute(t *testing.T) {
	st := mustStatement(t, `Date,Amount
2024-01-01,-5000
2024-01-02,-3000
`)
	s := txn.Summarize(st)
	assert.Equal(t, 8000.0, s.TotalAmount)
}

func TestSummarize_NoDateColumn(t *testing.T) {
	st := mustStatement(t, `Category,Amount
Food,100
`)
	s := txn.Summarize(st)
	assert.Equal(t, "No date column found", s.DateRange)
}

func TestSummarize_UnparseableDates(t *testing.T) {
	st := mustStatement(t, `Date,Amount
whenever,100
soon,200
`)
	s := txn.Summarize(st)
	assert.Equal(t, "Unknown", s.DateRange)
	assert.Equal(t, 300.0, s.TotalAmount)
}

func TestSummarize_NoAmountColumn(t *testing.T) {
	st := mustStatement(t, `Date,Category
2024-01-01,Food
`)
	s := txn.Summarize(st)
	assert.Equal(t, 0.0, s.TotalAmount)
	assert.Nil(t, s.TopCategories)
}

func TestSummarize_AmountsWithSeparators(t *testing.T) {
	st := mustStatement(t, `Date,Amount
2024-01-01,"1,50,000"
2024-01-02,"Rs 25,000"
`)
	s := txn.Summarize(st)
	assert.Equal(t, 175000.0, s.TotalAmount)
}

func TestSummarize_TopCategories(t *testing.T) {
	st := mustStatement(t, `Date,Category,Amount
2024-01-01,Food,100
2024-01-02,Food,200
2024-01-03,Rent,25000
2024-01-04,Travel,1500
2024-01-05,Insurance,12000
2024-01-06,Investment,10000
2024-01-07,Shopping,3000
2024-01-08,Shopping,1000
`)
	s := txn.Summarize(st)

	require.Len(t, s.TopCategories, 5)
	assert.Equal(t, 25000.0, s.TopCategories["Rent"])
	assert.Equal(t, 4000.0, s.TopCategories["Shopping"])
	// Food (300) is the smallest total and falls outside the top 5
	assert.NotContains(t, s.TopCategories, "Food")
}

func TestSummarize_MonthlyTrend(t *testing.T) {
	st := mustStatement(t, `Date,Amount
2024-04-05,1000
2024-04-20,2000
2024-05-01,500
`)
	s := txn.Summarize(st)

	require.NotNil(t, s.MonthlyTrend)
	assert.Equal(t, 3000.0, s.MonthlyTrend["2024-04"])
	assert.Equal(t, 500.0, s.MonthlyTrend["2024-05"])
}

func TestSummarize_CategoryListCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("Date,Category,Amount\n")
	for i := 0; i < 15; i++ {
		b.WriteString("2024-01-01,Cat")
		b.WriteByte(byte('A' + i))
		b.WriteString(",100\n")
	}
	st := mustStatement(t, b.String())
	s := txn.Summarize(st)

	assert.Equal(t, 15, s.CategoriesCount)
	assert.Len(t, s.Categories, 10)
}
