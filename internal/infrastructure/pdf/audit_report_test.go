package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/scoring"
)

func ptr(v int) *int { return &v }

func TestGenerateAuditReport(t *testing.T) {
	cl := &entity.Checklist{ID: "cl1", Name: "Estándar", Sections: []entity.ChecklistSection{{
		ID: "s1", Name: "Exposición",
		Items: []entity.ChecklistItem{{ID: "i1", Name: "Lineal", Criteria: []entity.Criterion{
			{ID: "A", Name: "Precios"}, {ID: "B", Name: "Reposición"}, {ID: "C", Name: "Limpieza"},
		}}},
	}}}
	scores := []*entity.AuditScore{
		{CriteriaID: "A", Score: ptr(1), Comment: "Etiquetas caducadas"},
		{CriteriaID: "B", Score: ptr(5)},
		{CriteriaID: "C", Score: ptr(0)},
	}
	submitted := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	data := auditing.ReportData{
		Audit: &entity.Audit{
			ID: "a1", Status: entity.StatusSubmitted, DtStart: submitted.Add(-2 * time.Hour), SubmittedAt: &submitted,
		},
		Store:     &entity.Store{Name: "Super Centro", Codehex: "0A1F", City: "Lyon"},
		Performer: &entity.User{Name: "Ana"},
		Checklist: cl,
		Scores:    scores,
		Report:    scoring.ByChecklist(cl, scores),
		Actions: []*entity.ActionPlan{{
			Title: "Lineal - Precios", Responsible: entity.ResponsibleAderente,
			DueDate: submitted.AddDate(0, 0, 7), Status: entity.ActionStatusPending,
		}},
	}

	out, err := NewAuditReportGenerator().GenerateAuditReport(context.Background(), data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateAuditReport_SinTienda(t *testing.T) {
	_, err := NewAuditReportGenerator().GenerateAuditReport(context.Background(), auditing.ReportData{Audit: &entity.Audit{}})
	assert.Error(t, err)
}

func TestScoreLabel(t *testing.T) {
	assert.Equal(t, "—", scoreLabel(nil))
	assert.Equal(t, "N/A", scoreLabel(ptr(0)))
	assert.Equal(t, "4/5", scoreLabel(ptr(4)))
	assert.Equal(t, "—", percentage(scoring.Summary{}))
}
