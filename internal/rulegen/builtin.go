package rulegen

import (
	"time"

	"taxsarthi/internal/domain"
)

func fptr(v float64) *float64 { return &v }

// surchargeBands are identical for both regimes.
func surchargeBands() []domain.SurchargeBand {
	return []domain.SurchargeBand{
		{MinIncome: 0, MaxIncome: fptr(5000000), RatePercent: 0},
		{MinIncome: 5000000, MaxIncome: fptr(10000000), RatePercent: 10},
		{MinIncome: 10000000, MaxIncome: fptr(20000000), RatePercent: 15},
		{MinIncome: 20000000, MaxIncome: fptr(50000000), RatePercent: 25},
		{MinIncome: 50000000, MaxIncome: nil, RatePercent: 37},
	}
}

var builtinSourceURLs = []string{
	"https://incometaxindia.gov.in/Pages/tax-information-services.aspx",
	"https://www.indiabudget.gov.in/",
}

// BuiltinRuleSet returns the compiled-in FY 2024-25 rule document for the
// given regime. It is the fallback when no rule file exists on disk and live
// generation is disabled or failing. The financial year is recorded as given
// but the constants are always those of FY 2024-25.
func BuiltinRuleSet(regime domain.Regime, financialYear string) *domain.TaxRuleSet {
	rs := &domain.TaxRuleSet{
		Regime:        regime,
		FinancialYear: financialYear,
		Surcharges:    surchargeBands(),
		Cess:          domain.CessRule{RatePercent: 4, Name: "Health and Education Cess"},
		SourceURLs:    builtinSourceURLs,
		LastUpdated:   time.Now().UTC().Format("2006-01-02"),
	}

	switch regime {
	case domain.RegimeNew:
		rs.Slabs = []domain.Slab{
			{MinIncome: 0, MaxIncome: fptr(300000), RatePercent: 0},
			{MinIncome: 300000, MaxIncome: fptr(700000), RatePercent: 5},
			{MinIncome: 700000, MaxIncome: fptr(1000000), RatePercent: 10},
			{MinIncome: 1000000, MaxIncome: fptr(1200000), RatePercent: 15},
			{MinIncome: 1200000, MaxIncome: fptr(1500000), RatePercent: 20},
			{MinIncome: 1500000, MaxIncome: nil, RatePercent: 30},
		}
		rs.Deductions = []domain.DeductionRule{
			{Section: "80CCD(2)", Name: "Employer NPS contribution", MaxLimit: 0, Regimes: []string{"new"}, Note: "Limited to 10% of basic salary"},
			{Section: "Standard Deduction", Name: "Standard deduction on salary", MaxLimit: 50000, Regimes: []string{"new"}},
		}
		rs.Rebates = []domain.RebateRule{
			{Section: "87A", Name: "Rebate under section 87A", MaxRebate: 25000, IncomeThreshold: 700000},
		}
	default:
		rs.Slabs = []domain.Slab{
			{MinIncome: 0, MaxIncome: fptr(250000), RatePercent: 0},
			{MinIncome: 250000, MaxIncome: fptr(500000), RatePercent: 5},
			{MinIncome: 500000, MaxIncome: fptr(1000000), RatePercent: 20},
			{MinIncome: 1000000, MaxIncome: nil, RatePercent: 30},
		}
		rs.Deductions = []domain.DeductionRule{
			{Section: "80C", Name: "Investments and payments", MaxLimit: 150000, Regimes: []string{"old"}},
			{Section: "80D", Name: "Health insurance premium", MaxLimit: 75000, Regimes: []string{"old"}},
			{Section: "80G", Name: "Donations", MaxLimit: 0, Regimes: []string{"old"}, Note: "Subject to qualifying limits"},
			{Section: "80E", Name: "Education loan interest", MaxLimit: 0, Regimes: []string{"old"}},
			{Section: "80TTA", Name: "Savings account interest", MaxLimit: 10000, Regimes: []string{"old"}},
			{Section: "Standard Deduction", Name: "Standard deduction on salary", MaxLimit: 50000, Regimes: []string{"old"}},
			{Section: "24(b)", Name: "Home loan interest", MaxLimit: 200000, Regimes: []string{"old"}, Note: "Self-occupied property"},
		}
		rs.Rebates = []domain.RebateRule{
			{Section: "87A", Name: "Rebate under section 87A", MaxRebate: 12500, IncomeThreshold: 500000},
		}
	}
	return rs
}
