package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Save(ctx context.Context, rec *domain.AnalysisRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO analyses (id, regime, financial_year, gross_income, taxable_income, total_tax, risk_score, risk_level, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.Regime, rec.FinancialYear, rec.GrossIncome, rec.TaxableIncome,
		rec.TotalTax, rec.RiskScore, rec.RiskLevel, rec.Result, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Save: %w", err)
	}
	return nil
}

func (r *analysisRepo) List(ctx context.Context, limit, offset int) ([]domain.AnalysisRecord, error) {
	var records []domain.AnalysisRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT * FROM analyses
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("analysisRepo.List: %w", err)
	}
	return records, nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	err := r.db.GetContext(ctx, &rec,
		`SELECT * FROM analyses WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &rec, nil
}
