package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/engine"
	"taxsarthi/internal/port"
	"taxsarthi/internal/report"
	"taxsarthi/internal/rulestore"
)

// AnalysisService runs tax computations and risk assessments over the
// loaded rule documents.
type AnalysisService interface {
	Analyze(ctx context.Context, regime domain.Regime, financialYear string, input *domain.TaxpayerInput) (*domain.RegimeOutcome, error)
	Compare(ctx context.Context, financialYear string, inputOld, inputNew *domain.TaxpayerInput) (*domain.RegimeComparison, error)
	Simulate(ctx context.Context, regime domain.Regime, financialYear string, incomes []float64, deductions map[string]float64) ([]domain.SimulationRow, error)
	Report(ctx context.Context, regime domain.Regime, financialYear string, input *domain.TaxpayerInput) (string, error)
	History(ctx context.Context, limit, offset int) ([]domain.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error)
}

type analysisService struct {
	store *rulestore.Store
	repo  port.AnalysisRepository // nil when history is disabled
}

// NewAnalysisService creates an AnalysisService. repo may be nil, in which
// case analyses are not persisted and history endpoints report
// ErrHistoryDisabled.
func NewAnalysisService(store *rulestore.Store, repo port.AnalysisRepository) AnalysisService {
	return &analysisService{store: store, repo: repo}
}

func (s *analysisService) Analyze(ctx context.Context, regime domain.Regime, financialYear string, input *domain.TaxpayerInput) (*domain.RegimeOutcome, error) {
	if !regime.Valid() {
		return nil, domain.ErrInvalidRegime
	}

	rules, err := s.store.Get(regime, financialYear)
	if err != nil {
		return nil, err
	}

	tax, err := engine.ComputeTax(rules, input)
	if err != nil {
		return nil, err
	}
	risk := engine.AssessRisk(rules, input, tax)

	outcome := &domain.RegimeOutcome{Tax: tax, Risk: risk}
	s.persist(ctx, outcome)
	return outcome, nil
}

// persist saves the outcome for the history endpoint. Persistence failures
// are logged and do not fail the analysis.
func (s *analysisService) persist(ctx context.Context, outcome *domain.RegimeOutcome) {
	if s.repo == nil {
		return
	}

	payload, err := json.Marshal(outcome)
	if err != nil {
		log.Printf("service.AnalysisService: marshaling outcome: %v", err)
		return
	}

	rec := &domain.AnalysisRecord{
		ID:            uuid.New(),
		Regime:        outcome.Tax.Regime,
		FinancialYear: outcome.Tax.FinancialYear,
		GrossIncome:   outcome.Tax.GrossIncome,
		TaxableIncome: outcome.Tax.TaxableIncome,
		TotalTax:      outcome.Tax.TotalTax,
		RiskScore:     outcome.Risk.RiskScore,
		RiskLevel:     outcome.Risk.RiskLevel,
		Result:        payload,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		log.Printf("service.AnalysisService: saving analysis %s: %v", rec.ID, err)
	}
}

func (s *analysisService) Compare(ctx context.Context, financialYear string, inputOld, inputNew *domain.TaxpayerInput) (*domain.RegimeComparison, error) {
	rulesOld, err := s.store.Get(domain.RegimeOld, financialYear)
	if err != nil {
		return nil, err
	}
	rulesNew, err := s.store.Get(domain.RegimeNew, financialYear)
	if err != nil {
		return nil, err
	}
	return engine.CompareRegimes(rulesOld, rulesNew, inputOld, inputNew)
}

func (s *analysisService) Simulate(ctx context.Context, regime domain.Regime, financialYear string, incomes []float64, deductions map[string]float64) ([]domain.SimulationRow, error) {
	if !regime.Valid() {
		return nil, domain.ErrInvalidRegime
	}

	rules, err := s.store.Get(regime, financialYear)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.SimulationRow, 0, len(incomes))
	for _, income := range incomes {
		tax, err := engine.ComputeTax(rules, &domain.TaxpayerInput{
			GrossIncome: income,
			Deductions:  deductions,
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, domain.SimulationRow{
			Income:        income,
			Tax:           tax.TotalTax,
			EffectiveRate: tax.EffectiveTaxRate,
		})
	}
	return rows, nil
}

func (s *analysisService) Report(ctx context.Context, regime domain.Regime, financialYear string, input *domain.TaxpayerInput) (string, error) {
	outcome, err := s.Analyze(ctx, regime, financialYear, input)
	if err != nil {
		return "", err
	}
	return report.Render(outcome.Tax, outcome.Risk, time.Now()), nil
}

func (s *analysisService) History(ctx context.Context, limit, offset int) ([]domain.AnalysisRecord, error) {
	if s.repo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *analysisService) GetAnalysis(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error) {
	if s.repo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.repo.GetByID(ctx, id)
}
