package service

import (
	"context"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/rulegen"
	"taxsarthi/internal/rulestore"
)

// GeneratedRuleInfo summarizes one generated rule document.
type GeneratedRuleInfo struct {
	Regime          domain.Regime `json:"regime"`
	SlabsCount      int           `json:"slabs_count"`
	DeductionsCount int           `json:"deductions_count"`
}

// RuleService exposes the rule documents and the generation agent.
type RuleService interface {
	Current(regime domain.Regime, financialYear string) (*domain.TaxRuleSet, error)
	Generate(ctx context.Context, regime string, financialYear string) ([]GeneratedRuleInfo, error)
}

type ruleService struct {
	store     *rulestore.Store
	generator *rulegen.Generator
}

// NewRuleService creates a RuleService.
func NewRuleService(store *rulestore.Store, generator *rulegen.Generator) RuleService {
	return &ruleService{store: store, generator: generator}
}

func (s *ruleService) Current(regime domain.Regime, financialYear string) (*domain.TaxRuleSet, error) {
	if !regime.Valid() {
		return nil, domain.ErrInvalidRegime
	}
	return s.store.Get(regime, financialYear)
}

// Generate produces rule documents for one regime, or for both when regime
// is "both".
func (s *ruleService) Generate(ctx context.Context, regime string, financialYear string) ([]GeneratedRuleInfo, error) {
	var regimes []domain.Regime
	switch regime {
	case "both":
		regimes = []domain.Regime{domain.RegimeOld, domain.RegimeNew}
	case string(domain.RegimeOld), string(domain.RegimeNew):
		regimes = []domain.Regime{domain.Regime(regime)}
	default:
		return nil, domain.ErrInvalidRegime
	}

	infos := make([]GeneratedRuleInfo, 0, len(regimes))
	for _, r := range regimes {
		rs, err := s.generator.Generate(ctx, r, financialYear)
		if err != nil {
			return nil, err
		}
		infos = append(infos, GeneratedRuleInfo{
			Regime:          r,
			SlabsCount:      len(rs.Slabs),
			DeductionsCount: len(rs.Deductions),
		})
	}
	return infos, nil
}
