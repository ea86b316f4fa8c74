package txn

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Summary carries the statistics derived from one statement.
type Summary struct {
	TotalTransactions int                `json:"total_transactions"`
	ColumnsFound      []string           `json:"columns_found"`
	DateRange         string             `json:"date_range"`
	TotalAmount       float64            `json:"total_amount"`
	CategoriesCount   int                `json:"categories_count"`
	Categories        []string           `json:"categories,omitempty"`
	TopCategories     map[string]float64 `json:"top_categories,omitempty"`
	MonthlyTrend      map[string]float64 `json:"monthly_trend,omitempty"`
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"01/02/2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "Rs")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

const maxListedCategories = 10

// Summarize derives the summary statistics for a statement. Columns are
// located heuristically: the first column containing "date", the first
// containing "amount" or "value", and the first containing "category",
// "type" or "description".
func Summarize(st *Statement) *Summary {
	s := &Summary{
		TotalTransactions: len(st.Rows),
		ColumnsFound:      st.Columns,
	}

	dateCol := st.ColumnIndex("date")
	amountCol := st.ColumnIndex("amount", "value")
	categoryCol := st.ColumnIndex("category", "type", "description")

	s.DateRange = dateRange(st, dateCol)
	s.TotalAmount = totalAmount(st, amountCol)

	if categoryCol >= 0 {
		seen := make(map[string]bool)
		for _, row := range st.Rows {
			cat := st.Cell(row, categoryCol)
			if cat == "" || seen[cat] {
				continue
			}
			seen[cat] = true
			if len(s.Categories) < maxListedCategories {
				s.Categories = append(s.Categories, cat)
			}
		}
		s.CategoriesCount = len(seen)
	}

	s.TopCategories = topCategories(st, categoryCol, amountCol, 5)
	s.MonthlyTrend = monthlyTrend(st, dateCol, amountCol)

	return s
}

func dateRange(st *Statement, dateCol int) string {
	if dateCol < 0 {
		return "No date column found"
	}
	var minDate, maxDate time.Time
	found := false
	for _, row := range st.Rows {
		t, ok := parseDate(st.Cell(row, dateCol))
		if !ok {
			continue
		}
		if !found || t.Before(minDate) {
			minDate = t
		}
		if !found || t.After(maxDate) {
			maxDate = t
		}
		found = true
	}
	if !found {
		return "Unknown"
	}
	return minDate.Format("2006-01-02") + " to " + maxDate.Format("2006-01-02")
}

func totalAmount(st *Statement, amountCol int) float64 {
	if amountCol < 0 {
		return 0
	}
	var total float64
	for _, row := range st.Rows {
		if v, ok := parseAmount(st.Cell(row, amountCol)); ok {
			total += v
		}
	}
	return math.Abs(total)
}

func topCategories(st *Statement, categoryCol, amountCol, limit int) map[string]float64 {
	if categoryCol < 0 || amountCol < 0 {
		return nil
	}
	sums := make(map[string]float64)
	for _, row := range st.Rows {
		cat := st.Cell(row, categoryCol)
		if cat == "" {
			continue
		}
		if v, ok := parseAmount(st.Cell(row, amountCol)); ok {
			sums[cat] += v
		}
	}
	if len(sums) <= limit {
		return sums
	}

	type catSum struct {
		cat string
		sum float64
	}
	ranked := make([]catSum, 0, len(sums))
	for cat, sum := range sums {
		ranked = append(ranked, catSum{cat, sum})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].sum > ranked[j].sum })

	top := make(map[string]float64, limit)
	for _, cs := range ranked[:limit] {
		top[cs.cat] = cs.sum
	}
	return top
}

func monthlyTrend(st *Statement, dateCol, amountCol int) map[string]float64 {
	if dateCol < 0 || amountCol < 0 {
		return nil
	}
	trend := make(map[string]float64)
	for _, row := range st.Rows {
		t, ok := parseDate(st.Cell(row, dateCol))
		if !ok {
			continue
		}
		v, ok := parseAmount(st.Cell(row, amountCol))
		if !ok {
			continue
		}
		trend[t.Format("2006-01")] += v
	}
	if len(trend) == 0 {
		return nil
	}
	return trend
}
