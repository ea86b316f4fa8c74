// Package engine implements the deterministic tax computation, risk
// assessment, and regime comparison over an already-loaded rule document.
// All functions are pure: rules are read-only, results are freshly
// allocated, and no package state exists.
package engine

import (
	"math"

	"taxsarthi/internal/domain"
)

// round2 rounds a monetary value for presentation. Intermediate
// accumulation stays unrounded so rounding error never compounds.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTax calculates the full tax breakdown for input under rules.
// It returns domain.ErrRulesNotLoaded when the rule set is missing or has
// no slabs, and domain.ErrInvalidInput for negative gross income.
func ComputeTax(rules *domain.TaxRuleSet, input *domain.TaxpayerInput) (*domain.TaxResult, error) {
	if rules == nil || len(rules.Slabs) == 0 {
		return nil, domain.ErrRulesNotLoaded
	}
	if input == nil || input.GrossIncome < 0 {
		return nil, domain.ErrInvalidInput
	}

	totalDeductions := allowedDeductionTotal(rules, input.Deductions)
	taxableIncome := math.Max(0, input.GrossIncome-totalDeductions)

	taxFromSlabs := slabTax(rules.Slabs, taxableIncome)
	rebate := applyRebate(rules.Rebates, taxableIncome, taxFromSlabs)
	surcharge := applySurcharge(rules.Surcharges, taxableIncome, taxFromSlabs-rebate)
	cess := (taxFromSlabs - rebate + surcharge) * rules.Cess.RatePercent / 100
	totalTax := taxFromSlabs - rebate + surcharge + cess

	effectiveRate := 0.0
	if input.GrossIncome > 0 {
		effectiveRate = totalTax / input.GrossIncome * 100
	}

	return &domain.TaxResult{
		GrossIncome:      input.GrossIncome,
		TotalDeductions:  totalDeductions,
		TaxableIncome:    taxableIncome,
		TaxFromSlabs:     round2(taxFromSlabs),
		Rebate:           round2(rebate),
		Surcharge:        round2(surcharge),
		Cess:             round2(cess),
		TotalTax:         round2(totalTax),
		EffectiveTaxRate: round2(effectiveRate),
		Regime:           rules.Regime,
		FinancialYear:    rules.FinancialYear,
	}, nil
}

// allowedDeductionTotal sums claimed deductions clamped to each section's
// limit. A MaxLimit of 0 means unlimited. Claimed sections absent from the
// rule set are ignored.
func allowedDeductionTotal(rules *domain.TaxRuleSet, claimed map[string]float64) float64 {
	var total float64
	for _, rule := range rules.Deductions {
		amount := claimed[rule.Section]
		if rule.MaxLimit > 0 {
			amount = math.Min(amount, rule.MaxLimit)
		}
		total += amount
	}
	return total
}

// slabTax accumulates tax across slabs in document order. The portion of
// taxable income falling inside each slab is taxed at that slab's rate; a
// nil upper bound is treated as unbounded.
func slabTax(slabs []domain.Slab, taxableIncome float64) float64 {
	var tax float64
	for _, slab := range slabs {
		if taxableIncome <= slab.MinIncome {
			continue
		}
		upper := taxableIncome
		if slab.MaxIncome != nil {
			upper = math.Min(taxableIncome, *slab.MaxIncome)
		}
		tax += (upper - slab.MinIncome) * slab.RatePercent / 100
	}
	return tax
}

// applyRebate scans rebate rules in document order; the first rule whose
// threshold covers the taxable income applies, capped at the tax amount.
func applyRebate(rebates []domain.RebateRule, taxableIncome, taxAmount float64) float64 {
	for _, r := range rebates {
		if taxableIncome <= r.IncomeThreshold {
			return math.Min(taxAmount, r.MaxRebate)
		}
	}
	return 0
}

// applySurcharge scans surcharge bands in document order and applies the
// first band containing the taxable income. Exactly one band may match;
// the rate applies to the whole tax-after-rebate base, not layered like
// slabs.
func applySurcharge(bands []domain.SurchargeBand, taxableIncome, taxAfterRebate float64) float64 {
	for _, b := range bands {
		if b.MaxIncome == nil {
			if taxableIncome > b.MinIncome {
				return taxAfterRebate * b.RatePercent / 100
			}
			continue
		}
		if taxableIncome >= b.MinIncome && taxableIncome <= *b.MaxIncome {
			return taxAfterRebate * b.RatePercent / 100
		}
	}
	return 0
}
