package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.ActionPlanRepository = (*ActionPlanRepo)(nil)

// ActionPlanRepo implementación de ActionPlanRepository sobre PostgreSQL.
type ActionPlanRepo struct {
	q Querier
}

// NewActionPlanRepository construye el adaptador.
func NewActionPlanRepository(q Querier) *ActionPlanRepo {
	return &ActionPlanRepo{q: q}
}

const actionColumns = `id, audit_id, criteria_id, title, description, responsible, due_date, status,
	progress, created_by, completed_date, created_at, updated_at`

// List acciones de una auditoría, ordenadas por vencimiento.
func (r *ActionPlanRepo) List(ctx context.Context, auditID string) ([]*entity.ActionPlan, error) {
	return r.query(ctx, `SELECT `+actionColumns+` FROM action_plans WHERE audit_id = $1 ORDER BY due_date, id`, auditID)
}

// Search acciones de las auditorías visibles según filter, en una sola consulta.
func (r *ActionPlanRepo) Search(ctx context.Context, f entity.ActionFilter) ([]*entity.ActionPlan, error) {
	query, args := searchActionsSQL(f)
	return r.query(ctx, query, args...)
}

func searchActionsSQL(f entity.ActionFilter) (string, []any) {
	sub := &whereBuilder{}
	applyAuditFilter(sub, f.Audits, "dtstart")
	w := &whereBuilder{args: sub.args}
	if len(sub.conds) > 0 {
		w.conds = append(w.conds, "audit_id IN (SELECT id FROM audits"+sub.sql()+")")
	}
	if f.OnlyOpen {
		w.add("status = ANY(?)", []string{entity.ActionStatusPending, entity.ActionStatusInProgress})
	}
	return `SELECT ` + actionColumns + ` FROM action_plans` + w.sql() + ` ORDER BY due_date, id`, w.args
}

func (r *ActionPlanRepo) query(ctx context.Context, query string, args ...any) ([]*entity.ActionPlan, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActionPlan
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetByID obtiene una acción o (nil, nil).
func (r *ActionPlanRepo) GetByID(ctx context.Context, id string) (*entity.ActionPlan, error) {
	a, err := scanAction(r.q.QueryRow(ctx, `SELECT `+actionColumns+` FROM action_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get action: %w", err)
	}
	return a, nil
}

// Create persiste una acción.
func (r *ActionPlanRepo) Create(ctx context.Context, a *entity.ActionPlan) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO action_plans (`+actionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.AuditID, a.CriteriaID, a.Title, a.Description, a.Responsible, a.DueDate, a.Status,
		a.Progress, a.CreatedBy, a.CompletedDate, a.CreatedAt, a.UpdatedAt,
	)
	return mapWriteError("insert action", err)
}

// Update guarda todos los campos editables.
func (r *ActionPlanRepo) Update(ctx context.Context, a *entity.ActionPlan) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE action_plans
		SET title = $2, description = $3, responsible = $4, due_date = $5, status = $6,
		    progress = $7, completed_date = $8, updated_at = $9
		WHERE id = $1`,
		a.ID, a.Title, a.Description, a.Responsible, a.DueDate, a.Status, a.Progress, a.CompletedDate, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActionNotFound
	}
	return nil
}

// Delete borra la acción.
func (r *ActionPlanRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM action_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActionNotFound
	}
	return nil
}

func scanAction(row pgx.Row) (*entity.ActionPlan, error) {
	var a entity.ActionPlan
	var progress int16
	if err := row.Scan(&a.ID, &a.AuditID, &a.CriteriaID, &a.Title, &a.Description, &a.Responsible, &a.DueDate,
		&a.Status, &progress, &a.CreatedBy, &a.CompletedDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Progress = int(progress)
	return &a, nil
}
