// Package report renders a tax analysis as a plain-text report suitable for
// terminals and email bodies.
package report

import (
	"fmt"
	"strings"
	"time"

	"taxsarthi/internal/domain"
)

const lineWidth = 70

func rule(ch string) string {
	return strings.Repeat(ch, lineWidth)
}

// formatAmount renders a rupee amount with thousands separators and two
// decimal places.
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func amountLine(label string, v float64) string {
	return fmt.Sprintf("%-30sRs %s\n", label+":", formatAmount(v))
}

// Render produces the full text report for one tax computation and its risk
// assessment.
func Render(tax *domain.TaxResult, risk *domain.RiskAssessment, now time.Time) string {
	var b strings.Builder

	b.WriteString(rule("=") + "\n")
	b.WriteString("TAX ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Financial Year: %s | Regime: %s\n", tax.FinancialYear, strings.ToUpper(string(tax.Regime)))
	b.WriteString(rule("=") + "\n\n")

	b.WriteString("INCOME DETAILS\n")
	b.WriteString(rule("-") + "\n")
	b.WriteString(amountLine("Gross Income", tax.GrossIncome))
	b.WriteString(amountLine("Total Deductions", tax.TotalDeductions))
	b.WriteString(amountLine("Taxable Income", tax.TaxableIncome))
	b.WriteString("\n")

	b.WriteString("TAX CALCULATION\n")
	b.WriteString(rule("-") + "\n")
	b.WriteString(amountLine("Tax from Slabs", tax.TaxFromSlabs))
	b.WriteString(amountLine("Rebate (87A)", tax.Rebate))
	b.WriteString(amountLine("Surcharge", tax.Surcharge))
	b.WriteString(amountLine("Health & Education Cess", tax.Cess))
	b.WriteString(rule("-") + "\n")
	b.WriteString(amountLine("TOTAL TAX PAYABLE", tax.TotalTax))
	fmt.Fprintf(&b, "%-30s%.2f%%\n", "Effective Tax Rate:", tax.EffectiveTaxRate)
	b.WriteString("\n")

	b.WriteString("FRAUD & COMPLIANCE ANALYSIS\n")
	b.WriteString(rule("-") + "\n")
	fmt.Fprintf(&b, "%-30s%.2f / 1.0\n", "Risk Score:", risk.RiskScore)
	fmt.Fprintf(&b, "%-30s%s\n", "Risk Level:", risk.RiskLevel)
	fmt.Fprintf(&b, "%-30s%.1f%%\n", "Compliance Score:", risk.ComplianceScore)

	if len(risk.Flags) > 0 {
		b.WriteString("\nRED FLAGS DETECTED:\n")
		for i, flag := range risk.Flags {
			fmt.Fprintf(&b, "   %d. %s\n", i+1, flag)
		}
	}

	b.WriteString("\nRECOMMENDATIONS:\n")
	for i, rec := range risk.Recommendations {
		fmt.Fprintf(&b, "   %d. %s\n", i+1, rec)
	}

	b.WriteString("\n" + rule("=") + "\n")
	fmt.Fprintf(&b, "Report generated: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(rule("=") + "\n")

	return b.String()
}
