package domain

// ChatContext is the taxpayer snapshot the chatbot personalizes answers
// with, set after a tax calculation.
type ChatContext struct {
	GrossIncome      float64            `json:"gross_income"`
	Regime           Regime             `json:"regime"`
	Deductions       map[string]float64 `json:"deductions,omitempty"`
	TaxableIncome    float64            `json:"taxable_income,omitempty"`
	TotalTax         float64            `json:"total_tax,omitempty"`
	EffectiveTaxRate float64            `json:"effective_tax_rate,omitempty"`
	RiskScore        float64            `json:"risk_score,omitempty"`
	RiskLevel        RiskLevel          `json:"risk_level,omitempty"`
	ComplianceScore  float64            `json:"compliance_score,omitempty"`
	Flags            []string           `json:"flags,omitempty"`
}

// TotalDeductions sums the claimed deduction amounts.
func (c *ChatContext) TotalDeductions() float64 {
	var total float64
	for _, amount := range c.Deductions {
		total += amount
	}
	return total
}
