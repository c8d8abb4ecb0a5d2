package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

// ChecklistInvalidator descarta la copia en caché de una plantilla.
type ChecklistInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// ChecklistUseCase lectura de plantillas de checklist.
type ChecklistUseCase struct {
	repo  repository.ChecklistRepository
	cache ChecklistInvalidator
}

// NewChecklistUseCase construye el caso de uso. Si repo lleva caché, Refresh la invalida.
func NewChecklistUseCase(repo repository.ChecklistRepository) *ChecklistUseCase {
	uc := &ChecklistUseCase{repo: repo}
	if inv, ok := repo.(ChecklistInvalidator); ok {
		uc.cache = inv
	}
	return uc
}

// List devuelve las plantillas sin el árbol (solo conteo de criterios).
func (uc *ChecklistUseCase) List(ctx context.Context) ([]dto.ChecklistResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChecklistResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ChecklistResponse{ID: c.ID, Name: c.Name, CriteriaCount: c.CriteriaCount()})
	}
	return out, nil
}

// GetByID devuelve la plantilla completa.
func (uc *ChecklistUseCase) GetByID(ctx context.Context, id string) (*dto.ChecklistResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrChecklistNotFound
	}
	return toChecklistResponse(c), nil
}

// Refresh descarta la copia en caché de la plantilla id y devuelve la versión de PostgreSQL.
// Las plantillas se editan fuera de la API (semillas SQL); sin caché solo relee.
func (uc *ChecklistUseCase) Refresh(ctx context.Context, id string) (*dto.ChecklistResponse, error) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, id); err != nil {
			return nil, fmt.Errorf("invalidar checklist %s: %w", id, err)
		}
	}
	return uc.GetByID(ctx, id)
}

func toChecklistResponse(c *entity.Checklist) *dto.ChecklistResponse {
	out := &dto.ChecklistResponse{
		ID:            c.ID,
		Name:          c.Name,
		CriteriaCount: c.CriteriaCount(),
		Sections:      make([]dto.ChecklistSectionResponse, 0, len(c.Sections)),
	}
	for _, s := range c.Sections {
		sec := dto.ChecklistSectionResponse{ID: s.ID, Name: s.Name, Position: s.Position, Items: make([]dto.ChecklistItemResponse, 0, len(s.Items))}
		for _, it := range s.Items {
			item := dto.ChecklistItemResponse{ID: it.ID, Name: it.Name, Position: it.Position, Criteria: make([]dto.CriterionResponse, 0, len(it.Criteria))}
			for _, cr := range it.Criteria {
				item.Criteria = append(item.Criteria, dto.CriterionResponse{ID: cr.ID, Name: cr.Name, Position: cr.Position, Weight: cr.Weight})
			}
			sec.Items = append(sec.Items, item)
		}
		out.Sections = append(out.Sections, sec)
	}
	return out
}
