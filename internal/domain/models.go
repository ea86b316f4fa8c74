package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Slab is one progressive tax bracket. A nil MaxIncome means the slab is
// unbounded above.
type Slab struct {
	MinIncome   float64  `json:"min_income"`
	MaxIncome   *float64 `json:"max_income"`
	RatePercent float64  `json:"rate"`
}

// DeductionRule describes a deduction section and its cap. MaxLimit 0 means
// the section has no upper limit.
type DeductionRule struct {
	Section     string   `json:"section"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	MaxLimit    float64  `json:"max_limit"`
	Regimes     []string `json:"applicable_regime,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// RebateRule grants a rebate when taxable income is at or below the
// threshold. Rules are evaluated in document order, first match wins.
type RebateRule struct {
	Section         string  `json:"section,omitempty"`
	Name            string  `json:"name,omitempty"`
	MaxRebate       float64 `json:"max_rebate"`
	IncomeThreshold float64 `json:"income_threshold"`
}

// SurchargeBand applies a surcharge rate when taxable income falls inside
// [MinIncome, MaxIncome]. Bands are mutually exclusive; a nil MaxIncome is
// unbounded above.
type SurchargeBand struct {
	MinIncome   float64  `json:"min_income"`
	MaxIncome   *float64 `json:"max_income"`
	RatePercent float64  `json:"rate"`
}

// CessRule is the flat cess applied on tax after rebate and surcharge.
type CessRule struct {
	RatePercent float64 `json:"rate"`
	Name        string  `json:"name,omitempty"`
}

// TaxRuleSet is the immutable rule document for one (regime, financial year).
type TaxRuleSet struct {
	Regime        Regime          `json:"regime"`
	FinancialYear string          `json:"financial_year"`
	Slabs         []Slab          `json:"slabs"`
	Deductions    []DeductionRule `json:"deductions"`
	Rebates       []RebateRule    `json:"rebates"`
	Surcharges    []SurchargeBand `json:"surcharges"`
	Cess          CessRule        `json:"cess"`
	SourceURLs    []string        `json:"source_urls,omitempty"`
	LastUpdated   string          `json:"last_updated,omitempty"`
}

// TaxpayerInput is the caller-supplied financial data for one computation.
// Deduction keys are free-text section codes; sections not present in the
// rule set contribute nothing to the tax computation but do count toward
// the risk engine's raw claimed sum.
type TaxpayerInput struct {
	GrossIncome        float64            `json:"gross_income"`
	Deductions         map[string]float64 `json:"deductions"`
	PreviousYearIncome *float64           `json:"previous_year_income,omitempty"`
}

// PreviousIncome returns the previous year income, defaulting to the
// current gross income when not supplied.
func (t *TaxpayerInput) PreviousIncome() float64 {
	if t.PreviousYearIncome != nil {
		return *t.PreviousYearIncome
	}
	return t.GrossIncome
}

// RawDeductionTotal sums every claimed amount as supplied, without rule
// clamping.
func (t *TaxpayerInput) RawDeductionTotal() float64 {
	var total float64
	for _, amount := range t.Deductions {
		total += amount
	}
	return total
}

// TaxResult is the full tax breakdown for one taxpayer under one rule set.
// Invariant: TotalTax = TaxFromSlabs - Rebate + Surcharge + Cess.
type TaxResult struct {
	GrossIncome      float64 `json:"gross_income"`
	TotalDeductions  float64 `json:"total_deductions"`
	TaxableIncome    float64 `json:"taxable_income"`
	TaxFromSlabs     float64 `json:"tax_from_slabs"`
	Rebate           float64 `json:"rebate"`
	Surcharge        float64 `json:"surcharge"`
	Cess             float64 `json:"cess"`
	TotalTax         float64 `json:"total_tax"`
	EffectiveTaxRate float64 `json:"effective_tax_rate"`
	Regime           Regime  `json:"regime"`
	FinancialYear    string  `json:"financial_year"`
}

// RiskAssessment is the heuristic compliance assessment for one computation.
type RiskAssessment struct {
	RiskScore       float64   `json:"risk_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Flags           []string  `json:"flags"`
	Recommendations []string  `json:"recommendations"`
	ComplianceScore float64   `json:"compliance_score"`
}

// RegimeOutcome bundles the tax and risk results for one regime.
type RegimeOutcome struct {
	Tax  *TaxResult      `json:"tax_calculation"`
	Risk *RiskAssessment `json:"fraud_analysis"`
}

// RegimeComparison is the result of running both regimes and picking the
// cheaper one. Ties resolve to the new regime.
type RegimeComparison struct {
	Old          *RegimeOutcome `json:"old"`
	New          *RegimeOutcome `json:"new"`
	BetterRegime Regime         `json:"better_regime"`
	Savings      float64        `json:"savings"`
	OldRegimeTax float64        `json:"old_regime_tax"`
	NewRegimeTax float64        `json:"new_regime_tax"`
}

// SimulationRow is one income point in a scenario simulation.
type SimulationRow struct {
	Income        float64 `json:"income"`
	Tax           float64 `json:"tax"`
	EffectiveRate float64 `json:"effective_rate"`
}

// AnalysisRecord is a persisted tax analysis for the history endpoint.
type AnalysisRecord struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Regime        Regime          `db:"regime" json:"regime"`
	FinancialYear string          `db:"financial_year" json:"financial_year"`
	GrossIncome   float64         `db:"gross_income" json:"gross_income"`
	TaxableIncome float64         `db:"taxable_income" json:"taxable_income"`
	TotalTax      float64         `db:"total_tax" json:"total_tax"`
	RiskScore     float64         `db:"risk_score" json:"risk_score"`
	RiskLevel     RiskLevel       `db:"risk_level" json:"risk_level"`
	Result        json.RawMessage `db:"result" json:"result"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
