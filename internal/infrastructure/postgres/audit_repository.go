package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL (usable con pool o tx).
// El estado se guarda con su nombre (NEW, IN_PROGRESS, ...); las filas heredadas
// SCHEDULED / COMPLETED se traducen al leer.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditColumns = `id, store_id, user_id, checklist_id, created_by, dtstart, dtend, submitted_at,
	status, auditor_comments, score, created_at, updated_at`

// Create persiste una auditoría.
func (r *AuditRepo) Create(ctx context.Context, a *entity.Audit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audits (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.StoreID, a.UserID, a.ChecklistID, a.CreatedBy, a.DtStart, a.DtEnd, a.SubmittedAt,
		audit.StorageStatus(a.Status), a.AuditorComments, a.Score, a.CreatedAt, a.UpdatedAt,
	)
	return mapWriteError("insert audit", err)
}

// GetByID obtiene una auditoría o (nil, nil).
func (r *AuditRepo) GetByID(ctx context.Context, id string) (*entity.Audit, error) {
	a, err := scanAudit(r.q.QueryRow(ctx, `SELECT `+auditColumns+` FROM audits WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return a, nil
}

// Update aplica solo los campos informados en upd.
func (r *AuditRepo) Update(ctx context.Context, id string, upd entity.AuditUpdate) error {
	w := &whereBuilder{}
	idArg := w.arg(id)
	sets := []string{"updated_at = " + w.arg(time.Now())}
	if upd.Status != nil {
		sets = append(sets, "status = "+w.arg(audit.StorageStatus(*upd.Status)))
	}
	if upd.DtEnd != nil {
		sets = append(sets, "dtend = "+w.arg(*upd.DtEnd))
	}
	if upd.SubmittedAt != nil {
		sets = append(sets, "submitted_at = "+w.arg(*upd.SubmittedAt))
	}
	switch {
	case upd.ClearScore:
		sets = append(sets, "score = NULL")
	case upd.Score != nil:
		sets = append(sets, "score = "+w.arg(*upd.Score))
	}
	if upd.AuditorComments != nil {
		sets = append(sets, "auditor_comments = "+w.arg(*upd.AuditorComments))
	}
	tag, err := r.q.Exec(ctx, `UPDATE audits SET `+strings.Join(sets, ", ")+` WHERE id = `+idArg, w.args...)
	if err != nil {
		return fmt.Errorf("update audit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuditNotFound
	}
	return nil
}

// List auditorías según el filtro, más recientes primero.
func (r *AuditRepo) List(ctx context.Context, f entity.AuditFilter) ([]*entity.Audit, error) {
	w := &whereBuilder{}
	applyAuditFilter(w, f, "dtstart")
	query := `SELECT ` + auditColumns + ` FROM audits` + w.sql() + ` ORDER BY dtstart DESC, id` + pageSQL(w, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete borra la auditoría (puntuaciones y comentarios en cascada).
func (r *AuditRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM audits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete audit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuditNotFound
	}
	return nil
}

func scanAudit(row pgx.Row) (*entity.Audit, error) {
	var a entity.Audit
	var status string
	err := row.Scan(&a.ID, &a.StoreID, &a.UserID, &a.ChecklistID, &a.CreatedBy, &a.DtStart, &a.DtEnd, &a.SubmittedAt,
		&status, &a.AuditorComments, &a.Score, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.Status, err = audit.ParseStorageStatus(status); err != nil {
		return nil, err
	}
	return &a, nil
}
