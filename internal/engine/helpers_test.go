package engine_test

import "taxsarthi/internal/domain"

func fptr(v float64) *float64 { return &v }

// oldRules returns the FY 2024-25 old regime rule set.
func oldRules() *domain.TaxRuleSet {
	return &domain.TaxRuleSet{
		Regime:        domain.RegimeOld,
		FinancialYear: "2024-25",
		Slabs: []domain.Slab{
			{MinIncome: 0, MaxIncome: fptr(250000), RatePercent: 0},
			{MinIncome: 250000, MaxIncome: fptr(500000), RatePercent: 5},
			{MinIncome: 500000, MaxIncome: fptr(1000000), RatePercent: 20},
			{MinIncome: 1000000, MaxIncome: nil, RatePercent: 30},
		},
		Deductions: []domain.DeductionRule{
			{Section: "80C", MaxLimit: 150000},
			{Section: "80D", MaxLimit: 75000},
			{Section: "80G", MaxLimit: 0},
			{Section: "80E", MaxLimit: 0},
			{Section: "80TTA", MaxLimit: 10000},
			{Section: "Standard Deduction", MaxLimit: 50000},
			{Section: "24(b)", MaxLimit: 200000},
		},
		Rebates: []domain.RebateRule{
			{Section: "87A", MaxRebate: 12500, IncomeThreshold: 500000},
		},
		Surcharges: []domain.SurchargeBand{
			{MinIncome: 0, MaxIncome: fptr(5000000), RatePercent: 0},
			{MinIncome: 5000000, MaxIncome: fptr(10000000), RatePercent: 10},
			{MinIncome: 10000000, MaxIncome: fptr(20000000), RatePercent: 15},
			{MinIncome: 20000000, MaxIncome: fptr(50000000), RatePercent: 25},
			{MinIncome: 50000000, MaxIncome: nil, RatePercent: 37},
		},
		Cess: domain.CessRule{RatePercent: 4},
	}
}

// newRules returns the FY 2024-25 new regime rule set.
func newRules() *domain.TaxRuleSet {
	return &domain.TaxRuleSet{
		Regime:        domain.RegimeNew,
		FinancialYear: "2024-25",
		Slabs: []domain.Slab{
			{MinIncome: 0, MaxIncome: fptr(300000), RatePercent: 0},
			{MinIncome: 300000, MaxIncome: fptr(700000), RatePercent: 5},
			{MinIncome: 700000, MaxIncome: fptr(1000000), RatePercent: 10},
			{MinIncome: 1000000, MaxIncome: fptr(1200000), RatePercent: 15},
			{MinIncome: 1200000, MaxIncome: fptr(1500000), RatePercent: 20},
			{MinIncome: 1500000, MaxIncome: nil, RatePercent: 30},
		},
		Deductions: []domain.DeductionRule{
			{Section: "80CCD(2)", MaxLimit: 0},
			{Section: "Standard Deduction", MaxLimit: 50000},
		},
		Rebates: []domain.RebateRule{
			{Section: "87A", MaxRebate: 25000, IncomeThreshold: 700000},
		},
		Surcharges: []domain.SurchargeBand{
			{MinIncome: 0, MaxIncome: fptr(5000000), RatePercent: 0},
			{MinIncome: 5000000, MaxIncome: fptr(10000000), RatePercent: 10},
			{MinIncome: 10000000, MaxIncome: fptr(20000000), RatePercent: 15},
			{MinIncome: 20000000, MaxIncome: fptr(50000000), RatePercent: 25},
			{MinIncome: 50000000, MaxIncome: nil, RatePercent: 37},
		},
		Cess: domain.CessRule{RatePercent: 4},
	}
}
