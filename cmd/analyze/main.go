package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/engine"
	"taxsarthi/internal/report"
	"taxsarthi/internal/rulegen"
	"taxsarthi/internal/rulestore"
)

// analyze computes tax and risk for a taxpayer JSON file and prints a
// plain-text report, without a running server. With -compare it prints the
// old-vs-new regime comparison instead.
func main() {
	var (
		inputPath = flag.String("input", "", "path to taxpayer JSON file (gross_income, deductions, previous_year_income)")
		regime    = flag.String("regime", "new", "tax regime: old or new")
		fy        = flag.String("fy", "2024-25", "financial year, e.g. 2024-25")
		rulesDir  = flag.String("rules", "rules", "rule documents directory (builtin rules used when missing)")
		compare   = flag.Bool("compare", false, "compare both regimes with the same deductions")
		asJSON    = flag.Bool("json", false, "emit JSON instead of the text report")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}
	var input domain.TaxpayerInput
	if err := json.Unmarshal(data, &input); err != nil {
		log.Fatalf("parsing input: %v", err)
	}

	store := rulestore.NewStore(*rulesDir)

	if *compare {
		runCompare(store, *fy, &input, *asJSON)
		return
	}

	r := domain.Regime(*regime)
	if !r.Valid() {
		log.Fatalf("invalid regime %q: must be old or new", *regime)
	}

	rules := loadRules(store, r, *fy)
	tax, err := engine.ComputeTax(rules, &input)
	if err != nil {
		log.Fatalf("computing tax: %v", err)
	}
	risk := engine.AssessRisk(rules, &input, tax)

	if *asJSON {
		emitJSON(&domain.RegimeOutcome{Tax: tax, Risk: risk})
		return
	}
	fmt.Print(report.Render(tax, risk, time.Now()))
}

// loadRules falls back to the builtin rule set when no document is on disk.
func loadRules(store *rulestore.Store, regime domain.Regime, fy string) *domain.TaxRuleSet {
	rules, err := store.Get(regime, fy)
	if err != nil {
		return rulegen.BuiltinRuleSet(regime, fy)
	}
	return rules
}

func runCompare(store *rulestore.Store, fy string, input *domain.TaxpayerInput, asJSON bool) {
	rulesOld := loadRules(store, domain.RegimeOld, fy)
	rulesNew := loadRules(store, domain.RegimeNew, fy)

	comparison, err := engine.CompareRegimes(rulesOld, rulesNew, input, input)
	if err != nil {
		log.Fatalf("comparing regimes: %v", err)
	}

	if asJSON {
		emitJSON(comparison)
		return
	}

	fmt.Printf("Old regime tax: Rs %.2f\n", comparison.OldRegimeTax)
	fmt.Printf("New regime tax: Rs %.2f\n", comparison.NewRegimeTax)
	fmt.Printf("Better regime:  %s (saves Rs %.2f)\n", comparison.BetterRegime, comparison.Savings)
}

func emitJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encoding output: %v", err)
	}
}
