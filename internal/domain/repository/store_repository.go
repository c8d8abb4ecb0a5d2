package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store (DIP).
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetByCodehex(ctx context.Context, codehex string) (*entity.Store, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
	// ListByDOT devuelve el conjunto efectivo de tiendas de uno o varios DOT (stores.dot_user_id).
	ListByDOT(ctx context.Context, dotUserIDs ...string) ([]*entity.Store, error)
	// GetByAderente devuelve la tienda vinculada al Aderente o (nil, nil).
	GetByAderente(ctx context.Context, aderenteID string) (*entity.Store, error)
	// SetDOT sobrescribe el DOT responsable de la tienda.
	SetDOT(ctx context.Context, storeID string, dotUserID *string) error
	// SetAderente sobrescribe el Aderente de la tienda (sin tocar otras tiendas).
	SetAderente(ctx context.Context, storeID string, aderenteID *string) error
	// ClearAderente desvincula al Aderente de cualquier tienda donde figure.
	ClearAderente(ctx context.Context, aderenteID string) error
}
