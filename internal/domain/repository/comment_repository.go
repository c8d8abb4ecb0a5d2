package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// CommentRepository comentarios de auditoría (solo inserción).
type CommentRepository interface {
	ListByAudit(ctx context.Context, auditID string) ([]*entity.AuditComment, error)
	Create(ctx context.Context, comment *entity.AuditComment) error
}
