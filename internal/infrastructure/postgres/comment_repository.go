package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo hilo de comentarios; solo inserta y lista.
type CommentRepo struct {
	q Querier
}

// NewCommentRepository construye el adaptador.
func NewCommentRepository(q Querier) *CommentRepo {
	return &CommentRepo{q: q}
}

// ListByAudit comentarios en orden cronológico.
func (r *CommentRepo) ListByAudit(ctx context.Context, auditID string) ([]*entity.AuditComment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, audit_id, user_id, body, is_internal, created_at
		FROM audit_comments WHERE audit_id = $1 ORDER BY created_at, id`, auditID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditComment
	for rows.Next() {
		var c entity.AuditComment
		if err := rows.Scan(&c.ID, &c.AuditID, &c.UserID, &c.Body, &c.IsInternal, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Create agrega un comentario.
func (r *CommentRepo) Create(ctx context.Context, c *entity.AuditComment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_comments (id, audit_id, user_id, body, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.AuditID, c.UserID, c.Body, c.IsInternal, c.CreatedAt,
	)
	return mapWriteError("insert comment", err)
}
