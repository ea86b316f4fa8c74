package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/engine"
)

func TestComputeTax_OldRegimeGolden(t *testing.T) {
	// FY 2024-25, old regime, 12L income with typical salaried deductions.
	input := &domain.TaxpayerInput{
		GrossIncome: 1200000,
		Deductions: map[string]float64{
			"80C":                150000,
			"80D":                25000,
			"Standard Deduction": 50000,
		},
	}

	result, err := engine.ComputeTax(oldRules(), input)
	require.NoError(t, err)

	assert.Equal(t, 225000.0, result.TotalDeductions)
	assert.Equal(t, 975000.0, result.TaxableIncome)
	assert.InDelta(t, 107500.0, result.TaxFromSlabs, 0.01)
	assert.Equal(t, 0.0, result.Rebate)
	assert.Equal(t, 0.0, result.Surcharge)
	assert.InDelta(t, 4300.0, result.Cess, 0.01)
	assert.InDelta(t, 111800.0, result.TotalTax, 0.01)
	assert.InDelta(t, 9.32, result.EffectiveTaxRate, 0.01)
	assert.Equal(t, domain.RegimeOld, result.Regime)
	assert.Equal(t, "2024-25", result.FinancialYear)
}

func TestComputeTax_ZeroIncome(t *testing.T) {
	input := &domain.TaxpayerInput{
		GrossIncome: 0,
		Deductions:  map[string]float64{"80C": 150000},
	}

	result, err := engine.ComputeTax(oldRules(), input)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.TaxableIncome)
	assert.Equal(t, 0.0, result.TaxFromSlabs)
	assert.Equal(t, 0.0, result.TotalTax)
	assert.Equal(t, 0.0, result.EffectiveTaxRate)
}

func TestComputeTax_Errors(t *testing.T) {
	input := &domain.TaxpayerInput{GrossIncome: 100000}

	t.Run("nil_rules", func(t *testing.T) {
		_, err := engine.ComputeTax(nil, input)
		assert.ErrorIs(t, err, domain.ErrRulesNotLoaded)
	})

	t.Run("empty_slabs", func(t *testing.T) {
		_, err := engine.ComputeTax(&domain.TaxRuleSet{}, input)
		assert.ErrorIs(t, err, domain.ErrRulesNotLoaded)
	})

	t.Run("negative_income", func(t *testing.T) {
		_, err := engine.ComputeTax(oldRules(), &domain.TaxpayerInput{GrossIncome: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestComputeTax_DeductionClamping(t *testing.T) {
	t.Run("capped_section_clamps", func(t *testing.T) {
		input := &domain.TaxpayerInput{
			GrossIncome: 1000000,
			Deductions:  map[string]float64{"80C": 500000},
		}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.Equal(t, 150000.0, result.TotalDeductions)
	})

	t.Run("unlimited_section_taken_as_is", func(t *testing.T) {
		input := &domain.TaxpayerInput{
			GrossIncome: 1000000,
			Deductions:  map[string]float64{"80G": 400000},
		}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.Equal(t, 400000.0, result.TotalDeductions)
	})

	t.Run("unknown_section_ignored", func(t *testing.T) {
		input := &domain.TaxpayerInput{
			GrossIncome: 1000000,
			Deductions:  map[string]float64{"80ZZ": 100000},
		}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.TotalDeductions)
	})

	t.Run("deductions_exceeding_income_floor_at_zero", func(t *testing.T) {
		input := &domain.TaxpayerInput{
			GrossIncome: 200000,
			Deductions:  map[string]float64{"80G": 900000},
		}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.TaxableIncome)
		assert.Equal(t, 0.0, result.TotalTax)
	})
}

func TestComputeTax_Rebate(t *testing.T) {
	t.Run("full_rebate_below_threshold", func(t *testing.T) {
		// Taxable 450000 → slab tax 10000, fully rebated under 87A.
		input := &domain.TaxpayerInput{GrossIncome: 450000}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.InDelta(t, 10000.0, result.TaxFromSlabs, 0.01)
		assert.InDelta(t, 10000.0, result.Rebate, 0.01)
		assert.Equal(t, 0.0, result.TotalTax)
	})

	t.Run("rebate_at_exact_threshold", func(t *testing.T) {
		input := &domain.TaxpayerInput{GrossIncome: 500000}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.InDelta(t, 12500.0, result.Rebate, 0.01)
		assert.Equal(t, 0.0, result.TotalTax)
	})

	t.Run("no_rebate_above_threshold", func(t *testing.T) {
		input := &domain.TaxpayerInput{GrossIncome: 500001}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.Rebate)
	})
}

func TestComputeTax_Surcharge(t *testing.T) {
	t.Run("bounded_band", func(t *testing.T) {
		// Taxable 60L: slab tax 1612500, 10% surcharge band.
		input := &domain.TaxpayerInput{GrossIncome: 6000000}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.InDelta(t, 1612500.0, result.TaxFromSlabs, 0.01)
		assert.InDelta(t, 161250.0, result.Surcharge, 0.01)
		assert.InDelta(t, 70950.0, result.Cess, 0.01)
		assert.InDelta(t, 1844700.0, result.TotalTax, 0.01)
	})

	t.Run("unbounded_top_band", func(t *testing.T) {
		input := &domain.TaxpayerInput{GrossIncome: 60000000}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.InDelta(t, 17812500.0, result.TaxFromSlabs, 0.01)
		assert.InDelta(t, 17812500.0*0.37, result.Surcharge, 0.01)
	})

	t.Run("no_matching_band_yields_zero", func(t *testing.T) {
		rules := oldRules()
		rules.Surcharges = []domain.SurchargeBand{
			{MinIncome: 5000000, MaxIncome: nil, RatePercent: 10},
		}
		input := &domain.TaxpayerInput{GrossIncome: 1000000}
		result, err := engine.ComputeTax(rules, input)
		require.NoError(t, err)
		assert.Equal(t, 0.0, result.Surcharge)
	})
}

func TestComputeTax_NewRegime(t *testing.T) {
	// 12L with only the standard deduction allowed: taxable 11.5L.
	input := &domain.TaxpayerInput{
		GrossIncome: 1200000,
		Deductions: map[string]float64{
			"80C":                150000,
			"80D":                25000,
			"Standard Deduction": 50000,
		},
	}

	result, err := engine.ComputeTax(newRules(), input)
	require.NoError(t, err)

	assert.Equal(t, 50000.0, result.TotalDeductions)
	assert.Equal(t, 1150000.0, result.TaxableIncome)
	// 0 + 20000 + 30000 + 22500 = 72500, cess 2900.
	assert.InDelta(t, 72500.0, result.TaxFromSlabs, 0.01)
	assert.InDelta(t, 75400.0, result.TotalTax, 0.01)
}

func TestComputeTax_Monotonicity(t *testing.T) {
	for _, rules := range []*domain.TaxRuleSet{oldRules(), newRules()} {
		prev := -1.0
		for income := 0.0; income <= 3000000; income += 25000 {
			result, err := engine.ComputeTax(rules, &domain.TaxpayerInput{GrossIncome: income})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.TotalTax, prev,
				"total tax decreased at income %.0f under %s regime", income, rules.Regime)
			prev = result.TotalTax
		}
	}
}

func TestComputeTax_TotalInvariant(t *testing.T) {
	incomes := []float64{0, 100000, 450000, 500000, 975000, 1200000, 2500000, 6000000, 12000000, 60000000}
	for _, income := range incomes {
		input := &domain.TaxpayerInput{
			GrossIncome: income,
			Deductions:  map[string]float64{"80C": 150000, "Standard Deduction": 50000},
		}
		result, err := engine.ComputeTax(oldRules(), input)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.TaxableIncome, 0.0)
		sum := result.TaxFromSlabs - result.Rebate + result.Surcharge + result.Cess
		assert.InDelta(t, result.TotalTax, sum, 0.05, "income %.0f", income)
	}
}

func TestComputeTax_Idempotent(t *testing.T) {
	input := &domain.TaxpayerInput{
		GrossIncome: 1234567,
		Deductions:  map[string]float64{"80C": 120000, "80D": 30000},
	}
	first, err := engine.ComputeTax(oldRules(), input)
	require.NoError(t, err)
	second, err := engine.ComputeTax(oldRules(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeTax_EffectiveRate(t *testing.T) {
	input := &domain.TaxpayerInput{GrossIncome: 1200000, Deductions: map[string]float64{"Standard Deduction": 50000}}
	result, err := engine.ComputeTax(oldRules(), input)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(result.EffectiveTaxRate))
	assert.InDelta(t, result.TotalTax/1200000*100, result.EffectiveTaxRate, 0.01)
}
