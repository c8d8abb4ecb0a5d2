package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.ScoreRepository = (*ScoreRepo)(nil)

// ScoreRepo puntuaciones por (auditoría, criterio) con sus fotos ordenadas.
type ScoreRepo struct {
	q Querier
}

// NewScoreRepository construye el adaptador.
func NewScoreRepository(q Querier) *ScoreRepo {
	return &ScoreRepo{q: q}
}

// ListByAudit devuelve las puntuaciones de la auditoría con sus fotos.
func (r *ScoreRepo) ListByAudit(ctx context.Context, auditID string) ([]*entity.AuditScore, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.audit_id, s.criteria_id, s.score, s.comment, s.updated_by, s.updated_at,
		       COALESCE((SELECT array_agg(p.url ORDER BY p.position) FROM audit_score_photos p WHERE p.score_id = s.id), '{}')
		FROM audit_scores s
		WHERE s.audit_id = $1
		ORDER BY s.updated_at, s.id`, auditID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditScore
	for rows.Next() {
		var s entity.AuditScore
		var score *int16
		if err := rows.Scan(&s.ID, &s.AuditID, &s.CriteriaID, &score, &s.Comment, &s.UpdatedBy, &s.UpdatedAt, &s.Photos); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if score != nil {
			v := int(*score)
			s.Score = &v
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Upsert inserta o reemplaza la fila (audit_id, criteria_id) y sus fotos.
// Si la fila ya existía conserva su id y lo escribe en score.ID.
func (r *ScoreRepo) Upsert(ctx context.Context, score *entity.AuditScore) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert score: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO audit_scores (id, audit_id, criteria_id, score, comment, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (audit_id, criteria_id) DO UPDATE
		SET score = EXCLUDED.score, comment = EXCLUDED.comment,
		    updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
		RETURNING id`,
		score.ID, score.AuditID, score.CriteriaID, score.Score, score.Comment, score.UpdatedBy, score.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return mapWriteError("upsert score", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM audit_score_photos WHERE score_id = $1`, id); err != nil {
		return fmt.Errorf("clear photos: %w", err)
	}
	if len(score.Photos) > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO audit_score_photos (score_id, position, url)
			SELECT $1, ord, url FROM unnest($2::text[]) WITH ORDINALITY AS p(url, ord)`,
			id, score.Photos)
		if err != nil {
			return fmt.Errorf("insert photos: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert score: %w", err)
	}
	score.ID = id
	return nil
}
