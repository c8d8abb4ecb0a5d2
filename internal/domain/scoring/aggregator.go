// Package scoring calcula porcentajes de sección y totales de una auditoría.
//
// Regla: solo cuentan las puntuaciones no nulas y distintas de 0 (N/A).
// Porcentaje = Σ puntuaciones / (n × 5) × 100, o 0 si n = 0. El peso del criterio no interviene.
package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxScore = decimal.NewFromInt(entity.ScoreMax)
)

// Summary resultado de agregar un conjunto de puntuaciones.
// Un Percentage 0 con ScoredCount 0 significa "sin datos", no "peor resultado".
type Summary struct {
	Percentage         decimal.Decimal `json:"percentage"`
	Points             int             `json:"points"`
	ScoredCount        int             `json:"scored_count"`
	NotApplicableCount int             `json:"not_applicable_count"`
	UnscoredCount      int             `json:"unscored_count"`
}

// HasData informa si al menos un criterio aporta al porcentaje.
func (s Summary) HasData() bool {
	return s.ScoredCount > 0
}

// Aggregate agrega valores crudos (nil = sin puntuar, 0 = N/A, 1..5 = valorado).
func Aggregate(values []*int) Summary {
	var sum Summary
	for _, v := range values {
		switch {
		case v == nil:
			sum.UnscoredCount++
		case *v == entity.ScoreNotApplicable:
			sum.NotApplicableCount++
		default:
			sum.ScoredCount++
			sum.Points += *v
		}
	}
	sum.Percentage = percentage(sum.Points, sum.ScoredCount)
	return sum
}

func percentage(points, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	den := decimal.NewFromInt(int64(count)).Mul(maxScore)
	return decimal.NewFromInt(int64(points)).Mul(hundred).Div(den).Round(2)
}

// Total porcentaje global a partir de todas las filas de puntuación de la auditoría.
func Total(scores []*entity.AuditScore) Summary {
	values := make([]*int, 0, len(scores))
	for _, s := range scores {
		if s == nil {
			continue
		}
		values = append(values, s.Score)
	}
	return Aggregate(values)
}

// Section porcentaje de una sección. Los criterios de la sección sin fila cuentan
// como sin puntuar; las filas de otros criterios se ignoran.
func Section(section entity.ChecklistSection, scores []*entity.AuditScore) Summary {
	byCriteria := indexByCriteria(scores)
	ids := section.CriteriaIDs()
	values := make([]*int, 0, len(ids))
	for _, id := range ids {
		if s, ok := byCriteria[id]; ok {
			values = append(values, s.Score)
		} else {
			values = append(values, nil)
		}
	}
	return Aggregate(values)
}

// SectionSummary porcentaje de una sección con su identificación.
type SectionSummary struct {
	SectionID string  `json:"section_id"`
	Name      string  `json:"name"`
	Summary   Summary `json:"summary"`
}

// Report desglose por sección más el total del checklist.
type Report struct {
	Sections []SectionSummary `json:"sections"`
	Total    Summary          `json:"total"`
}

// ByChecklist calcula todas las secciones y el total, recorriendo el checklist en orden.
// El total solo considera criterios del checklist, por lo que UnscoredCount es exacto.
func ByChecklist(cl *entity.Checklist, scores []*entity.AuditScore) Report {
	if cl == nil {
		return Report{Total: Total(scores)}
	}
	byCriteria := indexByCriteria(scores)
	rep := Report{Sections: make([]SectionSummary, 0, len(cl.Sections))}
	var all []*int
	for _, sec := range cl.Sections {
		rep.Sections = append(rep.Sections, SectionSummary{
			SectionID: sec.ID,
			Name:      sec.Name,
			Summary:   Section(sec, scores),
		})
		for _, id := range sec.CriteriaIDs() {
			if s, ok := byCriteria[id]; ok {
				all = append(all, s.Score)
			} else {
				all = append(all, nil)
			}
		}
	}
	rep.Total = Aggregate(all)
	return rep
}

// AllVisited informa si todos los criterios del checklist tienen puntuación o N/A.
func AllVisited(cl *entity.Checklist, scores []*entity.AuditScore) bool {
	byCriteria := indexByCriteria(scores)
	for _, sec := range cl.Sections {
		for _, id := range sec.CriteriaIDs() {
			if !byCriteria[id].Visited() {
				return false
			}
		}
	}
	return true
}

func indexByCriteria(scores []*entity.AuditScore) map[string]*entity.AuditScore {
	m := make(map[string]*entity.AuditScore, len(scores))
	for _, s := range scores {
		if s != nil {
			m[s.CriteriaID] = s
		}
	}
	return m
}
