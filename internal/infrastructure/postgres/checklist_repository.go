package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.ChecklistRepository = (*ChecklistRepo)(nil)

// ChecklistRepo lee plantillas con su árbol completo en una sola consulta.
type ChecklistRepo struct {
	q Querier
}

// NewChecklistRepository construye el adaptador.
func NewChecklistRepository(q Querier) *ChecklistRepo {
	return &ChecklistRepo{q: q}
}

// treeQuery una fila por criterio; secciones e ítems vacíos aparecen con columnas NULL.
const treeQuery = `
	SELECT c.id, c.name,
	       s.id, s.name, s.position,
	       i.id, i.name, i.position,
	       k.id, k.name, k.position, k.weight
	FROM checklists c
	LEFT JOIN checklist_sections s ON s.checklist_id = c.id
	LEFT JOIN checklist_items i ON i.section_id = s.id
	LEFT JOIN checklist_criteria k ON k.item_id = i.id`

const treeOrder = ` ORDER BY c.name, c.id, s.position, s.id, i.position, i.id, k.position, k.id`

// GetByID devuelve la plantilla o (nil, nil).
func (r *ChecklistRepo) GetByID(ctx context.Context, id string) (*entity.Checklist, error) {
	list, err := r.load(ctx, treeQuery+` WHERE c.id = $1`+treeOrder, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List todas las plantillas.
func (r *ChecklistRepo) List(ctx context.Context) ([]*entity.Checklist, error) {
	return r.load(ctx, treeQuery+treeOrder)
}

func (r *ChecklistRepo) load(ctx context.Context, query string, args ...any) ([]*entity.Checklist, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}
	defer rows.Close()

	var out []*entity.Checklist
	var cur *entity.Checklist
	for rows.Next() {
		var (
			clID, clName     string
			secID, secName   *string
			secPos           *int
			itemID, itemName *string
			itemPos          *int
			critID, critName *string
			critPos          *int
			weight           decimal.NullDecimal
		)
		if err := rows.Scan(&clID, &clName, &secID, &secName, &secPos, &itemID, &itemName, &itemPos,
			&critID, &critName, &critPos, &weight); err != nil {
			return nil, fmt.Errorf("scan checklist: %w", err)
		}
		if cur == nil || cur.ID != clID {
			cur = &entity.Checklist{ID: clID, Name: clName}
			out = append(out, cur)
		}
		if secID == nil {
			continue
		}
		if n := len(cur.Sections); n == 0 || cur.Sections[n-1].ID != *secID {
			cur.Sections = append(cur.Sections, entity.ChecklistSection{ID: *secID, Name: *secName, Position: deref(secPos)})
		}
		sec := &cur.Sections[len(cur.Sections)-1]
		if itemID == nil {
			continue
		}
		if n := len(sec.Items); n == 0 || sec.Items[n-1].ID != *itemID {
			sec.Items = append(sec.Items, entity.ChecklistItem{ID: *itemID, Name: *itemName, Position: deref(itemPos)})
		}
		item := &sec.Items[len(sec.Items)-1]
		if critID == nil {
			continue
		}
		item.Criteria = append(item.Criteria, entity.Criterion{
			ID: *critID, Name: *critName, Position: deref(critPos), Weight: weight.Decimal,
		})
	}
	return out, rows.Err()
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
