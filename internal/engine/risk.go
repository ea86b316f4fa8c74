package engine

import (
	"fmt"
	"math"
	"strings"

	"taxsarthi/internal/domain"
)

// invalidNewRegimeSections are deduction sections that have no place in a
// new-regime filing. Checked in this order so flags are stable.
var invalidNewRegimeSections = []string{"80C", "80D", "80G", "24(b)"}

// Risk level thresholds over the capped score.
const (
	riskMediumThreshold = 0.3
	riskHighThreshold   = 0.6
)

// AssessRisk evaluates the heuristic compliance checks for one computed
// result. Zero gross income returns a neutral assessment with no checks
// run. Each check is additive; the final score is capped at 1.0.
func AssessRisk(rules *domain.TaxRuleSet, input *domain.TaxpayerInput, tax *domain.TaxResult) *domain.RiskAssessment {
	if input.GrossIncome == 0 {
		return &domain.RiskAssessment{
			RiskScore:       0,
			RiskLevel:       domain.RiskLevelNA,
			Flags:           []string{},
			Recommendations: []string{},
			ComplianceScore: 100,
		}
	}

	var (
		flags []string
		score float64
	)

	// Deduction ratio uses the raw claimed sum, not the rule-clamped total,
	// so it reflects what the taxpayer asked for rather than what was
	// allowed.
	ratio := input.RawDeductionTotal() / input.GrossIncome
	if ratio > 0.5 {
		flags = append(flags, "High deduction-to-income ratio (>50%)")
		score += 0.3
	}
	if ratio > 0.7 {
		flags = append(flags, "Very high deduction-to-income ratio (>70%)")
		score += 0.2
	}

	// Sections claimed within 5% of their cap. Unlimited sections are
	// skipped since they have no cap to round up to.
	maxLimitCount := 0
	for _, rule := range rules.Deductions {
		if rule.MaxLimit <= 0 {
			continue
		}
		if input.Deductions[rule.Section] >= rule.MaxLimit*0.95 {
			maxLimitCount++
		}
	}
	if maxLimitCount >= 3 {
		flags = append(flags, fmt.Sprintf("Multiple deductions at maximum limit (%d sections)", maxLimitCount))
		score += 0.25
	}

	if rules.Regime == domain.RegimeOld {
		if input.Deductions["80C"] >= 150000 && input.GrossIncome < 500000 {
			flags = append(flags, "80C deduction unusually high for income level")
			score += 0.15
		}
	}

	if prev := input.PreviousIncome(); prev > 0 {
		change := math.Abs(input.GrossIncome-prev) / prev
		if change > 0.5 {
			flags = append(flags, fmt.Sprintf("Significant income change (%.1f%%)", change*100))
			score += 0.1
		}
	}

	if rules.Regime == domain.RegimeNew {
		for _, section := range invalidNewRegimeSections {
			if input.Deductions[section] > 0 {
				flags = append(flags, fmt.Sprintf("Invalid deduction %s claimed in new regime", section))
				score += 0.2
			}
		}
	}

	score = math.Min(score, 1.0)

	var level domain.RiskLevel
	switch {
	case score < riskMediumThreshold:
		level = domain.RiskLevelLow
	case score < riskHighThreshold:
		level = domain.RiskLevelMedium
	default:
		level = domain.RiskLevelHigh
	}

	if flags == nil {
		flags = []string{}
	}

	return &domain.RiskAssessment{
		RiskScore:       round2(score),
		RiskLevel:       level,
		Flags:           flags,
		Recommendations: recommendations(flags, level),
		ComplianceScore: math.Round((1-score)*1000) / 10,
	}
}

// recommendations is a deterministic mapping from the triggered flag set
// and risk level to advisory strings; nothing here is generative.
func recommendations(flags []string, level domain.RiskLevel) []string {
	var recs []string

	if level == domain.RiskLevelHigh {
		recs = append(recs,
			"HIGH RISK - Review all deductions with supporting documents",
			"Consider consulting a tax professional",
		)
	}

	joined := strings.Join(flags, " ")
	if strings.Contains(joined, "High deduction-to-income ratio") {
		recs = append(recs, "Verify all deduction claims have proper documentation")
	}
	if strings.Contains(joined, "Multiple deductions at maximum limit") {
		recs = append(recs, "Ensure accurate calculation - avoid rounding to max limits")
	}
	if strings.Contains(joined, "Invalid deduction") {
		recs = append(recs, "Remove deductions not applicable to selected regime")
	}

	if len(flags) == 0 {
		recs = append(recs,
			"No major compliance issues detected",
			"Keep all supporting documents for 7 years",
		)
	}

	return recs
}
