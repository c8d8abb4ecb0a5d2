package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// VisitRepository define el puerto de persistencia para Visit.
type VisitRepository interface {
	Create(ctx context.Context, visit *entity.Visit) error
	GetByID(ctx context.Context, id string) (*entity.Visit, error)
	Update(ctx context.Context, visit *entity.Visit) error
	List(ctx context.Context, filter entity.AuditFilter) ([]*entity.Visit, error)
}
