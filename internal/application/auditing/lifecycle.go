package auditing

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/actionplan"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
	"github.com/jhoicas/retail-audit-api/internal/domain/scoring"
)

// RejectionPrefix encabezado del comentario que se agrega al rechazar.
const RejectionPrefix = "Auditoría rechazada: "

// prepare carga la auditoría y valida el evento (estado y permiso) antes de cualquier escritura.
func (uc *AuditUseCase) prepare(ctx context.Context, s access.Session, id string, ev audit.Event) (*entity.Audit, entity.AuditStatus, error) {
	a, err := uc.loadAudit(ctx, s, id)
	if err != nil {
		return nil, 0, err
	}
	subj, err := uc.subjectOf(ctx, a)
	if err != nil {
		return nil, 0, err
	}
	to, err := audit.Apply(s, subj, ev)
	if err != nil {
		uc.transitionRejected(audit.KindAudit, a.ID, ev, s, err)
		return nil, 0, err
	}
	return a, to, nil
}

// Finalize IN_PROGRESS → SUBMITTED. Congela la puntuación total y, si la política lo indica,
// genera los planes de acción de los criterios con puntuación baja en la misma transacción.
func (uc *AuditUseCase) Finalize(ctx context.Context, s access.Session, id string) (*dto.TransitionResponse, error) {
	a, to, err := uc.prepare(ctx, s, id, audit.EventSubmit)
	if err != nil {
		return nil, err
	}
	scores, err := uc.Scores.ListByAudit(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener puntuaciones: %w", err)
	}
	cl, err := uc.Checklists.GetByID(ctx, a.ChecklistID)
	if err != nil {
		return nil, fmt.Errorf("obtener checklist: %w", err)
	}
	if cl == nil {
		return nil, domain.ErrChecklistNotFound
	}
	rep := scoring.ByChecklist(cl, scores)
	if uc.Policy.RequireAllScored && rep.Total.UnscoredCount > 0 {
		return nil, fmt.Errorf("%w: %d criterios sin puntuar", domain.ErrIncompleteAudit, rep.Total.UnscoredCount)
	}

	now := uc.Now()
	upd := entity.AuditUpdate{Status: &to, SubmittedAt: &now}
	if rep.Total.HasData() {
		total := rep.Total.Percentage
		upd.Score = &total
	} else {
		upd.ClearScore = true
	}

	var generated []*entity.ActionPlan
	err = uc.Tx.RunAudit(ctx, func(audits repository.AuditRepository, actions repository.ActionPlanRepository, _ repository.CommentRepository) error {
		if err := audits.Update(ctx, a.ID, upd); err != nil {
			return err
		}
		if !uc.Policy.AutoActions {
			return nil
		}
		var err error
		generated, err = generateAndStore(ctx, actions, actionplan.GenerateInput{
			AuditID:     a.ID,
			Scores:      scores,
			Checklist:   cl,
			FinalizedAt: now,
			CreatedBy:   s.UserID,
			DueDays:     uc.Policy.ActionDueDays,
			NewID:       uc.NewID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.transitionApplied(audit.KindAudit, a.ID, a.Status, to, s)
	if len(generated) > 0 {
		uc.Metrics.ActionsGenerated(len(generated))
		uc.Log.Info().Str("audit_id", a.ID).Int("actions", len(generated)).Msg("planes de acción generados")
	}
	a.Status = to
	a.SubmittedAt = &now
	a.Score = upd.Score
	if upd.ClearScore {
		a.Score = nil
	}
	a.UpdatedAt = now
	return &dto.TransitionResponse{
		Audit:            *toAuditResponse(a),
		GeneratedActions: toActionResponses(generated, now),
	}, nil
}

// generateAndStore ejecuta el generador contra las acciones existentes y persiste las nuevas.
func generateAndStore(ctx context.Context, actions repository.ActionPlanRepository, in actionplan.GenerateInput) ([]*entity.ActionPlan, error) {
	existing, err := actions.List(ctx, in.AuditID)
	if err != nil {
		return nil, fmt.Errorf("obtener acciones: %w", err)
	}
	in.Existing = existing
	created := actionplan.Generate(in)
	for _, act := range created {
		if err := actions.Create(ctx, act); err != nil {
			return nil, fmt.Errorf("crear acción: %w", err)
		}
	}
	return created, nil
}

// Approve SUBMITTED → ENDED.
func (uc *AuditUseCase) Approve(ctx context.Context, s access.Session, id string) (*dto.TransitionResponse, error) {
	a, to, err := uc.prepare(ctx, s, id, audit.EventApprove)
	if err != nil {
		return nil, err
	}
	if err := uc.Audits.Update(ctx, a.ID, entity.AuditUpdate{Status: &to}); err != nil {
		return nil, err
	}
	return uc.applied(s, a, to), nil
}

// Reject SUBMITTED → IN_PROGRESS. El motivo queda como comentario visible para el ejecutor
// y la puntuación congelada se descarta hasta la próxima finalización.
func (uc *AuditUseCase) Reject(ctx context.Context, s access.Session, id string, in dto.RejectAuditRequest) (*dto.TransitionResponse, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: el motivo del rechazo es requerido", domain.ErrInvalidInput)
	}
	a, to, err := uc.prepare(ctx, s, id, audit.EventReject)
	if err != nil {
		return nil, err
	}
	now := uc.Now()
	err = uc.Tx.RunAudit(ctx, func(audits repository.AuditRepository, _ repository.ActionPlanRepository, comments repository.CommentRepository) error {
		if err := audits.Update(ctx, a.ID, entity.AuditUpdate{Status: &to, ClearScore: true}); err != nil {
			return err
		}
		return comments.Create(ctx, &entity.AuditComment{
			ID:        uc.NewID(),
			AuditID:   a.ID,
			UserID:    s.UserID,
			Body:      RejectionPrefix + in.Reason,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	a.Score = nil
	return uc.applied(s, a, to), nil
}

// Close ENDED → CLOSED. Fija dtend. Las acciones abiertas no bloquean el cierre pero se avisan.
func (uc *AuditUseCase) Close(ctx context.Context, s access.Session, id string) (*dto.TransitionResponse, error) {
	a, to, err := uc.prepare(ctx, s, id, audit.EventClose)
	if err != nil {
		return nil, err
	}
	actions, err := uc.Actions.List(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener acciones: %w", err)
	}
	now := uc.Now()
	if err := uc.Audits.Update(ctx, a.ID, entity.AuditUpdate{Status: &to, DtEnd: &now}); err != nil {
		return nil, err
	}
	a.DtEnd = &now
	out := uc.applied(s, a, to)
	if open := actionplan.CountOpen(actions); open > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("la auditoría se cerró con %d planes de acción abiertos", open))
		uc.Log.Warn().Str("audit_id", a.ID).Int("open_actions", open).Msg("cierre con acciones abiertas")
	}
	return out, nil
}

// Cancel cualquier estado anterior a ENDED → CANCELLED (solo ADMIN/AMONT).
func (uc *AuditUseCase) Cancel(ctx context.Context, s access.Session, id string) (*dto.TransitionResponse, error) {
	a, to, err := uc.prepare(ctx, s, id, audit.EventCancel)
	if err != nil {
		return nil, err
	}
	if err := uc.Audits.Update(ctx, a.ID, entity.AuditUpdate{Status: &to}); err != nil {
		return nil, err
	}
	return uc.applied(s, a, to), nil
}

func (uc *AuditUseCase) applied(s access.Session, a *entity.Audit, to entity.AuditStatus) *dto.TransitionResponse {
	uc.transitionApplied(audit.KindAudit, a.ID, a.Status, to, s)
	a.Status = to
	a.UpdatedAt = uc.Now()
	return &dto.TransitionResponse{Audit: *toAuditResponse(a)}
}
