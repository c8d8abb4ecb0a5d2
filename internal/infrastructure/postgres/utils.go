package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// Querier lo común entre *pgxpool.Pool y pgx.Tx: los repositorios funcionan con ambos.
// Begin sobre una tx abre un savepoint.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// uniqueConstraints constraint único → error de dominio.
var uniqueConstraints = map[string]error{
	"users_email_key":         domain.ErrEmailAlreadyExists,
	"stores_codehex_key":      domain.ErrStoreCodeExists,
	"stores_aderente_id_key":  domain.ErrDuplicate,
	"audit_scores_audit_crit": domain.ErrDuplicate,
}

// mapWriteError traduce violaciones de unicidad al error de dominio; el resto se envuelve con op.
func mapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if sentinel, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
				return sentinel
			}
		}
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}

// whereBuilder acumula condiciones con placeholders numerados.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// applyAuditFilter agrega las condiciones de entity.AuditFilter. El alcance
// (StoreIDs, UserID) se combina con OR; el resto con AND. dateCol es la columna de fecha.
func applyAuditFilter(w *whereBuilder, f entity.AuditFilter, dateCol string) {
	switch {
	case len(f.StoreIDs) > 0 && f.UserID != "":
		w.add("(store_id = ANY(?) OR user_id = ?)", f.StoreIDs, f.UserID)
	case len(f.StoreIDs) > 0:
		w.add("store_id = ANY(?)", f.StoreIDs)
	case f.UserID != "":
		w.add("user_id = ?", f.UserID)
	}
	if f.StoreID != "" {
		w.add("store_id = ?", f.StoreID)
	}
	if len(f.Statuses) > 0 {
		w.add("status = ANY(?)", statusValues(f.Statuses))
	}
	if f.From != nil {
		w.add(dateCol+" >= ?", *f.From)
	}
	if f.To != nil {
		w.add(dateCol+" <= ?", *f.To)
	}
}

// statusValues valores almacenados (incluidos los heredados) de un conjunto de estados.
func statusValues(statuses []entity.AuditStatus) []string {
	var out []string
	for _, s := range statuses {
		out = append(out, audit.StorageValues(s)...)
	}
	return out
}

// pageSQL LIMIT/OFFSET con valores por defecto.
func pageSQL(w *whereBuilder, limit, offset int) string {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return " LIMIT " + w.arg(limit) + " OFFSET " + w.arg(offset)
}
