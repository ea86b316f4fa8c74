package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/engine"
)

func TestCompareRegimes_15LSalaried(t *testing.T) {
	inputOld := &domain.TaxpayerInput{
		GrossIncome: 1500000,
		Deductions: map[string]float64{
			"80C":                150000,
			"Standard Deduction": 50000,
			"24(b)":              200000,
		},
	}
	inputNew := &domain.TaxpayerInput{
		GrossIncome: 1500000,
		Deductions:  map[string]float64{"Standard Deduction": 50000},
	}

	cmp, err := engine.CompareRegimes(oldRules(), newRules(), inputOld, inputNew)
	require.NoError(t, err)

	// Must agree with direct computation of both regimes.
	oldDirect, err := engine.ComputeTax(oldRules(), inputOld)
	require.NoError(t, err)
	newDirect, err := engine.ComputeTax(newRules(), inputNew)
	require.NoError(t, err)

	assert.Equal(t, oldDirect.TotalTax, cmp.OldRegimeTax)
	assert.Equal(t, newDirect.TotalTax, cmp.NewRegimeTax)
	assert.InDelta(t, math.Abs(oldDirect.TotalTax-newDirect.TotalTax), cmp.Savings, 0.01)

	expected := domain.RegimeNew
	if oldDirect.TotalTax < newDirect.TotalTax {
		expected = domain.RegimeOld
	}
	assert.Equal(t, expected, cmp.BetterRegime)

	// Concrete golden values for this scenario.
	assert.InDelta(t, 148200.0, cmp.OldRegimeTax, 0.01)
	assert.InDelta(t, 135200.0, cmp.NewRegimeTax, 0.01)
	assert.Equal(t, domain.RegimeNew, cmp.BetterRegime)
}

func TestCompareRegimes_PerRegimeRiskAssessments(t *testing.T) {
	inputOld := &domain.TaxpayerInput{
		GrossIncome: 1200000,
		Deductions:  map[string]float64{"80C": 150000, "80D": 25000},
	}
	inputNew := &domain.TaxpayerInput{
		GrossIncome: 1200000,
		Deductions:  map[string]float64{"Standard Deduction": 50000},
	}

	cmp, err := engine.CompareRegimes(oldRules(), newRules(), inputOld, inputNew)
	require.NoError(t, err)

	// Old-regime deductions stay out of the new-regime assessment: a
	// clean new-regime input raises no invalid-section flags.
	assert.Empty(t, cmp.New.Risk.Flags)
	assert.Equal(t, domain.RiskLevelLow, cmp.Old.Risk.RiskLevel)
}

func TestCompareRegimes_TieGoesToNew(t *testing.T) {
	rules := oldRules()
	same := *rules
	same.Regime = domain.RegimeNew
	input := &domain.TaxpayerInput{GrossIncome: 1000000}

	cmp, err := engine.CompareRegimes(rules, &same, input, input)
	require.NoError(t, err)
	assert.Equal(t, cmp.OldRegimeTax, cmp.NewRegimeTax)
	assert.Equal(t, domain.RegimeNew, cmp.BetterRegime)
	assert.Equal(t, 0.0, cmp.Savings)
}

func TestCompareRegimes_PropagatesErrors(t *testing.T) {
	input := &domain.TaxpayerInput{GrossIncome: 1000000}

	_, err := engine.CompareRegimes(nil, newRules(), input, input)
	assert.ErrorIs(t, err, domain.ErrRulesNotLoaded)

	_, err = engine.CompareRegimes(oldRules(), nil, input, input)
	assert.ErrorIs(t, err, domain.ErrRulesNotLoaded)
}
