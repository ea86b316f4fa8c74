// Package rulestore loads and persists tax rule documents. Documents are
// JSON files on disk keyed by (regime, financial year); loaded rule sets
// are cached and treated as immutable, so engines can share them across
// requests without locking.
package rulestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"taxsarthi/internal/domain"
)

// Store is a file-backed, read-through-cached rule document store.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*domain.TaxRuleSet
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]*domain.TaxRuleSet),
	}
}

// FileName returns the on-disk name of a rule document, e.g.
// india_tax_2024_25_old.json.
func FileName(regime domain.Regime, financialYear string) string {
	fy := strings.ReplaceAll(financialYear, "-", "_")
	return fmt.Sprintf("india_tax_%s_%s.json", fy, regime)
}

// Get returns the rule set for (regime, financialYear), loading and
// validating it from disk on first use.
func (s *Store) Get(regime domain.Regime, financialYear string) (*domain.TaxRuleSet, error) {
	if !regime.Valid() {
		return nil, domain.ErrInvalidRegime
	}

	key := string(regime) + "/" + financialYear

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, FileName(regime, financialYear))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s regime, FY %s", domain.ErrRuleSetNotFound, regime, financialYear)
		}
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}

	var rules domain.TaxRuleSet
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRuleSetInvalid, path, err)
	}
	if err := Validate(&rules); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRuleSetInvalid, path, err)
	}

	s.mu.Lock()
	s.cache[key] = &rules
	s.mu.Unlock()

	return &rules, nil
}

// Save validates and writes a rule document, replacing any cached copy.
func (s *Store) Save(rules *domain.TaxRuleSet) error {
	if err := Validate(rules); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRuleSetInvalid, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}

	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling rule set: %w", err)
	}

	path := filepath.Join(s.dir, FileName(rules.Regime, rules.FinancialYear))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rule file %s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[string(rules.Regime)+"/"+rules.FinancialYear] = rules
	s.mu.Unlock()

	return nil
}

// Validate checks the structural invariants of a rule document: slabs must
// partition [0, inf) in ascending order with no gaps or overlaps, only the
// last slab may be unbounded, deduction sections must be unique, and the
// cess rate must be non-negative.
func Validate(rules *domain.TaxRuleSet) error {
	if rules == nil {
		return errors.New("rule set is nil")
	}
	if !rules.Regime.Valid() {
		return fmt.Errorf("unknown regime %q", rules.Regime)
	}
	if rules.FinancialYear == "" {
		return errors.New("financial_year is required")
	}
	if len(rules.Slabs) == 0 {
		return errors.New("slabs are required")
	}

	if rules.Slabs[0].MinIncome != 0 {
		return fmt.Errorf("first slab must start at 0, got %.2f", rules.Slabs[0].MinIncome)
	}
	for i, slab := range rules.Slabs {
		if slab.RatePercent < 0 {
			return fmt.Errorf("slab %d has negative rate", i)
		}
		last := i == len(rules.Slabs)-1
		if slab.MaxIncome == nil {
			if !last {
				return fmt.Errorf("slab %d is unbounded but not the final slab", i)
			}
			continue
		}
		if *slab.MaxIncome <= slab.MinIncome {
			return fmt.Errorf("slab %d has max_income <= min_income", i)
		}
		if last {
			return errors.New("final slab must be unbounded (max_income null)")
		}
		if rules.Slabs[i+1].MinIncome != *slab.MaxIncome {
			return fmt.Errorf("gap or overlap between slab %d and %d", i, i+1)
		}
	}

	seen := make(map[string]bool, len(rules.Deductions))
	for _, d := range rules.Deductions {
		if d.Section == "" {
			return errors.New("deduction with empty section code")
		}
		if seen[d.Section] {
			return fmt.Errorf("duplicate deduction section %q", d.Section)
		}
		seen[d.Section] = true
		if d.MaxLimit < 0 {
			return fmt.Errorf("deduction %s has negative max_limit", d.Section)
		}
	}

	if rules.Cess.RatePercent < 0 {
		return errors.New("cess rate must be non-negative")
	}

	return nil
}
