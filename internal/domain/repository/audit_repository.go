package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia para Audit.
// GetByID devuelve (nil, nil) si no existe; el caso de uso lo traduce a ErrAuditNotFound.
type AuditRepository interface {
	Create(ctx context.Context, audit *entity.Audit) error
	GetByID(ctx context.Context, id string) (*entity.Audit, error)
	// Update aplica solo los campos no nil de upd. Devuelve domain.ErrAuditNotFound si no hay fila.
	Update(ctx context.Context, id string, upd entity.AuditUpdate) error
	List(ctx context.Context, filter entity.AuditFilter) ([]*entity.Audit, error)
	Delete(ctx context.Context, id string) error
}
