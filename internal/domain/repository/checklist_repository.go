package repository

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// ChecklistRepository lectura de plantillas (el núcleo no las modifica).
type ChecklistRepository interface {
	// GetByID devuelve el árbol completo (secciones, ítems, criterios) o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Checklist, error)
	// List devuelve todas las plantillas con su árbol.
	List(ctx context.Context) ([]*entity.Checklist, error)
}
