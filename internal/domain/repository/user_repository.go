package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID/GetByEmail devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// ListByAmont lista los DOT cuyo supervisor es amontID.
	ListByAmont(ctx context.Context, amontID string) ([]*entity.User, error)
}
