package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// ScoreRepository persistencia de AuditScore. Upsert por (audit_id, criteria_id);
// dos escrituras concurrentes al mismo criterio: gana la última.
type ScoreRepository interface {
	ListByAudit(ctx context.Context, auditID string) ([]*entity.AuditScore, error)
	Upsert(ctx context.Context, score *entity.AuditScore) error
}
