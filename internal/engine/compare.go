package engine

import (
	"math"

	"taxsarthi/internal/domain"
)

// CompareRegimes computes tax and risk under both regimes and reports the
// cheaper one. Each regime takes its own taxpayer input, since old-regime
// deductions are not valid inputs to a new-regime filing. A tie resolves
// to the new regime.
func CompareRegimes(rulesOld, rulesNew *domain.TaxRuleSet, inputOld, inputNew *domain.TaxpayerInput) (*domain.RegimeComparison, error) {
	oldTax, err := ComputeTax(rulesOld, inputOld)
	if err != nil {
		return nil, err
	}
	newTax, err := ComputeTax(rulesNew, inputNew)
	if err != nil {
		return nil, err
	}

	better := domain.RegimeNew
	if oldTax.TotalTax < newTax.TotalTax {
		better = domain.RegimeOld
	}

	return &domain.RegimeComparison{
		Old: &domain.RegimeOutcome{
			Tax:  oldTax,
			Risk: AssessRisk(rulesOld, inputOld, oldTax),
		},
		New: &domain.RegimeOutcome{
			Tax:  newTax,
			Risk: AssessRisk(rulesNew, inputNew, newTax),
		},
		BetterRegime: better,
		Savings:      round2(math.Abs(oldTax.TotalTax - newTax.TotalTax)),
		OldRegimeTax: oldTax.TotalTax,
		NewRegimeTax: newTax.TotalTax,
	}, nil
}
