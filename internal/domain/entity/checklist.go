package entity

import "github.com/shopspring/decimal"

// Checklist plantilla central de auditoría: Sections → Items → Criteria.
// El núcleo solo la lee; su ciclo de vida lo gestiona administración.
type Checklist struct {
	ID       string
	Name     string
	Sections []ChecklistSection
}

// ChecklistSection sección ordenada del checklist.
type ChecklistSection struct {
	ID       string
	Name     string
	Position int
	Items    []ChecklistItem
}

// ChecklistItem ítem de una sección.
type ChecklistItem struct {
	ID       string
	Name     string
	Position int
	Criteria []Criterion
}

// Criterion criterio puntuable. Weight no interviene en la agregación.
type Criterion struct {
	ID       string
	Name     string
	Position int
	Weight   decimal.Decimal
}

// CriteriaIDs devuelve los IDs de todos los criterios de la sección en orden.
func (s ChecklistSection) CriteriaIDs() []string {
	var ids []string
	for _, it := range s.Items {
		for _, c := range it.Criteria {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// CriteriaCount número total de criterios del checklist.
func (c *Checklist) CriteriaCount() int {
	n := 0
	for _, s := range c.Sections {
		for _, it := range s.Items {
			n += len(it.Criteria)
		}
	}
	return n
}

// CriterionRef ubica un criterio dentro del árbol del checklist.
type CriterionRef struct {
	Section   *ChecklistSection
	Item      *ChecklistItem
	Criterion *Criterion
}

// FindCriterion busca un criterio por ID. ok=false si no pertenece al checklist.
func (c *Checklist) FindCriterion(criteriaID string) (CriterionRef, bool) {
	for si := range c.Sections {
		s := &c.Sections[si]
		for ii := range s.Items {
			it := &s.Items[ii]
			for ci := range it.Criteria {
				if it.Criteria[ci].ID == criteriaID {
					return CriterionRef{Section: s, Item: it, Criterion: &it.Criteria[ci]}, true
				}
			}
		}
	}
	return CriterionRef{}, false
}
