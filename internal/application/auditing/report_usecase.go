package auditing

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/scoring"
)

// ReportUseCase genera el informe PDF de una auditoría.
type ReportUseCase struct {
	base
	generator ReportGenerator
}

// NewReportUseCase construye el caso de uso inyectando el generador.
func NewReportUseCase(d Deps, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{base: newBase(d), generator: generator}
}

// Download reúne auditoría, tienda, ejecutor, checklist, puntuaciones y acciones y genera el PDF.
//
// Retorna:
//   - domain.ErrForbidden      si la sesión no puede ver informes o la auditoría.
//   - domain.ErrAuditNotFound  si la auditoría no existe.
func (uc *ReportUseCase) Download(ctx context.Context, s access.Session, auditID string) (pdfBytes []byte, filename string, err error) {
	if !access.CanViewReports(s) {
		return nil, "", domain.ErrForbidden
	}
	// ── 1. Auditoría visible ──────────────────────────────────────────────────
	a, err := uc.loadAudit(ctx, s, auditID)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Contexto: tienda, ejecutor, checklist ──────────────────────────────
	store, err := uc.Stores.GetByID(ctx, a.StoreID)
	if err != nil {
		return nil, "", fmt.Errorf("report: obtener tienda: %w", err)
	}
	if store == nil {
		return nil, "", domain.ErrStoreNotFound
	}
	performer, err := uc.Users.GetByID(ctx, a.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("report: obtener ejecutor: %w", err)
	}
	cl, err := uc.Checklists.GetByID(ctx, a.ChecklistID)
	if err != nil {
		return nil, "", fmt.Errorf("report: obtener checklist: %w", err)
	}

	// ── 3. Puntuaciones y acciones ────────────────────────────────────────────
	scores, err := uc.Scores.ListByAudit(ctx, a.ID)
	if err != nil {
		return nil, "", fmt.Errorf("report: obtener puntuaciones: %w", err)
	}
	actions, err := uc.Actions.List(ctx, a.ID)
	if err != nil {
		return nil, "", fmt.Errorf("report: obtener acciones: %w", err)
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateAuditReport(ctx, ReportData{
		Audit:     a,
		Store:     store,
		Performer: performer,
		Checklist: cl,
		Scores:    scores,
		Report:    scoring.ByChecklist(cl, scores),
		Actions:   actions,
	})
	if err != nil {
		return nil, "", fmt.Errorf("report: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("auditoria_%s_%s.pdf", store.Codehex, a.DtStart.Format("20060102"))
	return pdfBytes, filename, nil
}
