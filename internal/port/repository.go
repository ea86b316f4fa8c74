package port

import (
	"context"

	"github.com/google/uuid"

	"taxsarthi/internal/domain"
)

// AnalysisRepository persists tax analysis results.
type AnalysisRepository interface {
	Save(ctx context.Context, rec *domain.AnalysisRecord) error
	List(ctx context.Context, limit, offset int) ([]domain.AnalysisRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error)
}
