package dto

import "github.com/shopspring/decimal"

// CriterionResponse criterio puntuable.
type CriterionResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Position int             `json:"position"`
	Weight   decimal.Decimal `json:"weight"`
}

// ChecklistItemResponse ítem con sus criterios.
type ChecklistItemResponse struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Position int                 `json:"position"`
	Criteria []CriterionResponse `json:"criteria"`
}

// ChecklistSectionResponse sección con sus ítems.
type ChecklistSectionResponse struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Position int                     `json:"position"`
	Items    []ChecklistItemResponse `json:"items"`
}

// ChecklistResponse plantilla completa.
type ChecklistResponse struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	CriteriaCount int                        `json:"criteria_count"`
	Sections      []ChecklistSectionResponse `json:"sections,omitempty"`
}
