package auditing

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
	"github.com/jhoicas/retail-audit-api/internal/domain/scoring"
)

// TxRunner ejecuta una función dentro de una transacción de BD con repositorios atados a esa tx.
// Finalizar (estado + acciones) y rechazar (estado + comentario) son atómicos.
type TxRunner interface {
	RunAudit(ctx context.Context, fn func(
		audits repository.AuditRepository,
		actions repository.ActionPlanRepository,
		comments repository.CommentRepository,
	) error) error
}

// Metrics contadores del ciclo de vida. Lo implementa infrastructure/metrics.
type Metrics interface {
	TransitionApplied(kind, from, to string)
	TransitionRejected(kind, event string)
	ActionsGenerated(n int)
	ScoreWritten()
}

// NopMetrics no registra nada.
type NopMetrics struct{}

// TransitionApplied no hace nada.
func (NopMetrics) TransitionApplied(string, string, string) {}

// TransitionRejected no hace nada.
func (NopMetrics) TransitionRejected(string, string) {}

// ActionsGenerated no hace nada.
func (NopMetrics) ActionsGenerated(int) {}

// ScoreWritten no hace nada.
func (NopMetrics) ScoreWritten() {}

// ReportData todo lo necesario para la representación impresa de una auditoría.
type ReportData struct {
	Audit     *entity.Audit
	Store     *entity.Store
	Performer *entity.User
	Checklist *entity.Checklist
	Scores    []*entity.AuditScore
	Report    scoring.Report
	Actions   []*entity.ActionPlan
}

// ReportGenerator genera el PDF de una auditoría.
type ReportGenerator interface {
	GenerateAuditReport(ctx context.Context, data ReportData) ([]byte, error)
}

// Policy reglas configurables del ciclo de vida.
type Policy struct {
	// RequireAllScored exige puntuación o N/A en todos los criterios para finalizar.
	RequireAllScored bool
	// AutoActions ejecuta el generador de planes de acción al finalizar.
	AutoActions bool
	// ActionDueDays plazo de las acciones generadas; <= 0 usa el valor por defecto.
	ActionDueDays int
}
