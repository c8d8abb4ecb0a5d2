package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.VisitRepository = (*VisitRepo)(nil)

// VisitRepo implementación de VisitRepository sobre PostgreSQL.
type VisitRepo struct {
	q Querier
}

// NewVisitRepository construye el adaptador.
func NewVisitRepository(q Querier) *VisitRepo {
	return &VisitRepo{q: q}
}

const visitColumns = `id, store_id, user_id, created_by, type, dtstart, dtend, status, notes, created_at, updated_at`

// Create persiste una visita.
func (r *VisitRepo) Create(ctx context.Context, v *entity.Visit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO visits (`+visitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		v.ID, v.StoreID, v.UserID, v.CreatedBy, v.Type, v.DtStart, v.DtEnd,
		audit.StorageStatus(v.Status), v.Notes, v.CreatedAt, v.UpdatedAt,
	)
	return mapWriteError("insert visit", err)
}

// GetByID obtiene una visita o (nil, nil).
func (r *VisitRepo) GetByID(ctx context.Context, id string) (*entity.Visit, error) {
	v, err := scanVisit(r.q.QueryRow(ctx, `SELECT `+visitColumns+` FROM visits WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get visit: %w", err)
	}
	return v, nil
}

// Update guarda estado, dtend y notas.
func (r *VisitRepo) Update(ctx context.Context, v *entity.Visit) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE visits SET status = $2, dtend = $3, notes = $4, updated_at = $5 WHERE id = $1`,
		v.ID, audit.StorageStatus(v.Status), v.DtEnd, v.Notes, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVisitNotFound
	}
	return nil
}

// List visitas según el filtro.
func (r *VisitRepo) List(ctx context.Context, f entity.AuditFilter) ([]*entity.Visit, error) {
	w := &whereBuilder{}
	applyAuditFilter(w, f, "dtstart")
	rows, err := r.q.Query(ctx, `SELECT `+visitColumns+` FROM visits`+w.sql()+` ORDER BY dtstart DESC, id`+pageSQL(w, f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanVisit(row pgx.Row) (*entity.Visit, error) {
	var v entity.Visit
	var status string
	if err := row.Scan(&v.ID, &v.StoreID, &v.UserID, &v.CreatedBy, &v.Type, &v.DtStart, &v.DtEnd,
		&status, &v.Notes, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := audit.ParseStorageStatus(status)
	if err != nil {
		return nil, err
	}
	v.Status = st
	return &v, nil
}
