package domain

// Regime identifies the Indian income tax regime a rule set applies to.
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// Valid reports whether r is a known regime.
func (r Regime) Valid() bool {
	return r == RegimeOld || r == RegimeNew
}

// RiskLevel buckets a risk score into a categorical level.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
	// RiskLevelNA is returned for the zero-income short-circuit where no
	// checks run.
	RiskLevelNA RiskLevel = "N/A"
)

// StatementType represents the allowed transaction statement file types.
type StatementType string

const (
	StatementTypeCSV  StatementType = "csv"
	StatementTypeXLSX StatementType = "xlsx"
	StatementTypeXLS  StatementType = "xls"
)

// AllowedStatementExtensions maps file extensions (without dot) to StatementType.
var AllowedStatementExtensions = map[string]StatementType{
	"csv":  StatementTypeCSV,
	"xlsx": StatementTypeXLSX,
	"xls":  StatementTypeXLS,
}
