package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, codehex, name, brand, city, size, dot_user_id, aderente_id, created_at, updated_at`

// Create persiste una tienda.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stores (`+storeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.Codehex, s.Name, s.Brand, s.City, s.Size, s.DotUserID, s.AderenteID, s.CreatedAt, s.UpdatedAt,
	)
	return mapWriteError("insert store", err)
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
}

// GetByCodehex obtiene una tienda por su código.
func (r *StoreRepo) GetByCodehex(ctx context.Context, codehex string) (*entity.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE codehex = $1`, codehex)
}

// GetByAderente tienda vinculada al Aderente.
func (r *StoreRepo) GetByAderente(ctx context.Context, aderenteID string) (*entity.Store, error) {
	return r.findOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE aderente_id = $1`, aderenteID)
}

func (r *StoreRepo) findOne(ctx context.Context, query, arg string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

// List lista tiendas por codehex con paginación.
func (r *StoreRepo) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	w := &whereBuilder{}
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY codehex`+pageSQL(w, limit, offset), w.args...)
}

// ListByDOT tiendas cuyo dot_user_id está en dotUserIDs.
func (r *StoreRepo) ListByDOT(ctx context.Context, dotUserIDs ...string) ([]*entity.Store, error) {
	if len(dotUserIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores WHERE dot_user_id = ANY($1) ORDER BY codehex`, dotUserIDs)
}

func (r *StoreRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SetDOT sobrescribe el DOT de la tienda.
func (r *StoreRepo) SetDOT(ctx context.Context, storeID string, dotUserID *string) error {
	return r.setColumn(ctx, "dot_user_id", storeID, dotUserID)
}

// SetAderente sobrescribe el Aderente de la tienda. Si el Aderente sigue vinculado a
// otra tienda, el índice único parcial devuelve ErrDuplicate.
func (r *StoreRepo) SetAderente(ctx context.Context, storeID string, aderenteID *string) error {
	return r.setColumn(ctx, "aderente_id", storeID, aderenteID)
}

func (r *StoreRepo) setColumn(ctx context.Context, column, storeID string, userID *string) error {
	tag, err := r.q.Exec(ctx, `UPDATE stores SET `+column+` = $2, updated_at = $3 WHERE id = $1`, storeID, userID, time.Now())
	if err != nil {
		return mapWriteError("update store "+column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}

// ClearAderente desvincula al Aderente de cualquier tienda.
func (r *StoreRepo) ClearAderente(ctx context.Context, aderenteID string) error {
	_, err := r.q.Exec(ctx, `UPDATE stores SET aderente_id = NULL, updated_at = $2 WHERE aderente_id = $1`, aderenteID, time.Now())
	if err != nil {
		return fmt.Errorf("clear aderente: %w", err)
	}
	return nil
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.Codehex, &s.Name, &s.Brand, &s.City, &s.Size, &s.DotUserID, &s.AderenteID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
