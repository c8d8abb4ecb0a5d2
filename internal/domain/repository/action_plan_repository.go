package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// ActionPlanRepository persistencia de planes de acción.
type ActionPlanRepository interface {
	List(ctx context.Context, auditID string) ([]*entity.ActionPlan, error)
	// Search acciones de las auditorías que cumplen filter.Audits.
	Search(ctx context.Context, filter entity.ActionFilter) ([]*entity.ActionPlan, error)
	GetByID(ctx context.Context, id string) (*entity.ActionPlan, error)
	Create(ctx context.Context, action *entity.ActionPlan) error
	Update(ctx context.Context, action *entity.ActionPlan) error
	Delete(ctx context.Context, id string) error
}
