// Package actionplan deriva acciones correctivas de las puntuaciones bajas de una auditoría
// y gobierna el ciclo de vida de cada acción.
package actionplan

import (
	"time"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

const (
	// LowScoreThreshold puntuaciones en (0, LowScoreThreshold] generan acción.
	LowScoreThreshold = 2
	// DefaultDueDays plazo por defecto desde la finalización.
	DefaultDueDays = 7
	// PlaceholderDescription descripción cuando el criterio no tiene comentario.
	PlaceholderDescription = "Acción correctiva pendiente de definir por el responsable."
	titleSeparator         = " - "
)

// GenerateInput datos de entrada del generador (función pura: no persiste nada).
type GenerateInput struct {
	AuditID     string
	Scores      []*entity.AuditScore
	Checklist   *entity.Checklist
	Existing    []*entity.ActionPlan
	FinalizedAt time.Time
	CreatedBy   string
	DueDays     int           // <= 0 usa DefaultDueDays
	NewID       func() string // generador de IDs
}

// NeedsAction informa si la puntuación está en el rango (0, LowScoreThreshold].
func NeedsAction(s *entity.AuditScore) bool {
	if s == nil || s.Score == nil {
		return false
	}
	v := *s.Score
	return v > entity.ScoreNotApplicable && v <= LowScoreThreshold
}

// Generate devuelve las acciones nuevas para la auditoría, en el orden del checklist.
// Es idempotente: no crea acción para un criterio que ya tenga una en Existing
// (cualquiera que sea su estado), ni dos para el mismo criterio.
// Las puntuaciones de criterios ajenos al checklist se ignoran.
func Generate(in GenerateInput) []*entity.ActionPlan {
	if in.Checklist == nil {
		return nil
	}
	covered := make(map[string]bool, len(in.Existing))
	for _, a := range in.Existing {
		if a != nil && a.AuditID == in.AuditID && a.CriteriaID != nil {
			covered[*a.CriteriaID] = true
		}
	}
	byCriteria := make(map[string]*entity.AuditScore, len(in.Scores))
	for _, s := range in.Scores {
		if s != nil && s.AuditID == in.AuditID {
			byCriteria[s.CriteriaID] = s
		}
	}

	dueDays := in.DueDays
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	due := in.FinalizedAt.AddDate(0, 0, dueDays)

	var out []*entity.ActionPlan
	for _, sec := range in.Checklist.Sections {
		for _, item := range sec.Items {
			for _, crit := range item.Criteria {
				score := byCriteria[crit.ID]
				if !NeedsAction(score) || covered[crit.ID] {
					continue
				}
				covered[crit.ID] = true
				criteriaID := crit.ID
				out = append(out, &entity.ActionPlan{
					ID:          newID(in.NewID),
					AuditID:     in.AuditID,
					CriteriaID:  &criteriaID,
					Title:       item.Name + titleSeparator + crit.Name,
					Description: describe(score),
					Responsible: entity.ResponsibleAderente,
					DueDate:     due,
					Status:      entity.ActionStatusPending,
					Progress:    0,
					CreatedBy:   in.CreatedBy,
					CreatedAt:   in.FinalizedAt,
					UpdatedAt:   in.FinalizedAt,
				})
			}
		}
	}
	return out
}

func describe(s *entity.AuditScore) string {
	if s.Comment != "" {
		return s.Comment
	}
	return PlaceholderDescription
}

func newID(fn func() string) string {
	if fn == nil {
		return ""
	}
	return fn()
}
