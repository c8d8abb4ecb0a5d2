package auditing

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/actionplan"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// ActionUseCase planes de acción: generación automática, alta manual y seguimiento.
type ActionUseCase struct {
	base
}

// NewActionUseCase construye el caso de uso.
func NewActionUseCase(d Deps) *ActionUseCase {
	return &ActionUseCase{base: newBase(d)}
}

// ListByAudit acciones de una auditoría visible para la sesión.
func (uc *ActionUseCase) ListByAudit(ctx context.Context, s access.Session, auditID string) (*dto.ActionListResponse, error) {
	a, err := uc.loadAudit(ctx, s, auditID)
	if err != nil {
		return nil, err
	}
	list, err := uc.Actions.List(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("listar acciones: %w", err)
	}
	return &dto.ActionListResponse{
		Items: toActionResponses(list, uc.Now()),
		Open:  actionplan.CountOpen(list),
	}, nil
}

// List todas las acciones de auditorías visibles para la sesión. onlyOpen filtra pending/in_progress.
func (uc *ActionUseCase) List(ctx context.Context, s access.Session, onlyOpen bool) (*dto.ActionListResponse, error) {
	sc, err := uc.resolveScope(ctx, s)
	if err != nil {
		return nil, err
	}
	out := &dto.ActionListResponse{Items: []dto.ActionResponse{}}
	audits, ok := sc.apply(entity.AuditFilter{})
	if !ok {
		return out, nil
	}
	list, err := uc.Actions.Search(ctx, entity.ActionFilter{Audits: audits, OnlyOpen: onlyOpen})
	if err != nil {
		return nil, fmt.Errorf("listar acciones: %w", err)
	}
	now := uc.Now()
	for _, act := range list {
		out.Items = append(out.Items, toActionResponse(act, now))
		if act.IsOpen() {
			out.Open++
		}
	}
	return out, nil
}

// AutoGenerate ejecuta el generador sobre una auditoría ya finalizada. Es idempotente.
func (uc *ActionUseCase) AutoGenerate(ctx context.Context, s access.Session, auditID string) (*dto.ActionListResponse, error) {
	if !access.CanCreateActions(s) {
		return nil, domain.ErrForbidden
	}
	a, err := uc.loadAudit(ctx, s, auditID)
	if err != nil {
		return nil, err
	}
	if a.Status != entity.StatusSubmitted && a.Status != entity.StatusEnded {
		return nil, fmt.Errorf("%w: solo se generan acciones de auditorías finalizadas (estado %s)", domain.ErrConflict, a.Status)
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
	finalized := uc.Now()
	if a.SubmittedAt != nil {
		finalized = *a.SubmittedAt
	}
	created, err := generateAndStore(ctx, uc.Actions, actionplan.GenerateInput{
		AuditID:     a.ID,
		Scores:      scores,
		Checklist:   cl,
		FinalizedAt: finalized,
		CreatedBy:   s.UserID,
		DueDays:     uc.Policy.ActionDueDays,
		NewID:       uc.NewID,
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		uc.Metrics.ActionsGenerated(len(created))
		uc.Log.Info().Str("audit_id", a.ID).Int("actions", len(created)).Msg("planes de acción generados")
	}
	return &dto.ActionListResponse{
		Items: toActionResponses(created, uc.Now()),
		Open:  actionplan.CountOpen(created),
	}, nil
}

// Create alta manual. No aplica la regla de puntuación baja; requiere canCreateActions.
func (uc *ActionUseCase) Create(ctx context.Context, s access.Session, auditID string, in dto.CreateActionRequest) (*dto.ActionResponse, error) {
	if !access.CanCreateActions(s) {
		return nil, domain.ErrForbidden
	}
	a, err := uc.loadAudit(ctx, s, auditID)
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title es requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidResponsible(in.Responsible) {
		return nil, fmt.Errorf("%w: responsable %q", domain.ErrInvalidInput, in.Responsible)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due_date es requerido", domain.ErrInvalidInput)
	}
	if in.CriteriaID != nil {
		cl, err := uc.Checklists.GetByID(ctx, a.ChecklistID)
		if err != nil {
			return nil, fmt.Errorf("obtener checklist: %w", err)
		}
		if cl != nil {
			if _, ok := cl.FindCriterion(*in.CriteriaID); !ok {
				return nil, fmt.Errorf("%w: el criterio %s no pertenece al checklist", domain.ErrInvalidInput, *in.CriteriaID)
			}
		}
	}
	now := uc.Now()
	act := &entity.ActionPlan{
		ID:          uc.NewID(),
		AuditID:     a.ID,
		CriteriaID:  in.CriteriaID,
		Title:       in.Title,
		Description: in.Description,
		Responsible: in.Responsible,
		DueDate:     in.DueDate,
		Status:      entity.ActionStatusPending,
		CreatedBy:   s.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Actions.Create(ctx, act); err != nil {
		return nil, err
	}
	out := toActionResponse(act, now)
	return &out, nil
}

// Update edita una acción. Título, descripción, responsable y vencimiento requieren
// canCreateActions; el progreso lo puede informar cualquiera que vea la auditoría.
func (uc *ActionUseCase) Update(ctx context.Context, s access.Session, id string, in dto.UpdateActionRequest) (*dto.ActionResponse, error) {
	act, err := uc.loadAction(ctx, s, id)
	if err != nil {
		return nil, err
	}
	editsPlan := in.Title != nil || in.Description != nil || in.Responsible != nil || in.DueDate != nil
	if editsPlan && !access.CanCreateActions(s) {
		return nil, domain.ErrForbidden
	}
	now := uc.Now()
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title vacío", domain.ErrInvalidInput)
		}
		act.Title = *in.Title
	}
	if in.Description != nil {
		act.Description = *in.Description
	}
	if in.Responsible != nil {
		if !entity.ValidResponsible(*in.Responsible) {
			return nil, fmt.Errorf("%w: responsable %q", domain.ErrInvalidInput, *in.Responsible)
		}
		act.Responsible = *in.Responsible
	}
	if in.DueDate != nil {
		act.DueDate = *in.DueDate
	}
	if in.Progress != nil {
		if err := actionplan.SetProgress(act, *in.Progress, now); err != nil {
			return nil, err
		}
	}
	act.UpdatedAt = now
	if err := uc.Actions.Update(ctx, act); err != nil {
		return nil, err
	}
	out := toActionResponse(act, now)
	return &out, nil
}

// ChangeStatus mueve la acción de estado. Completar o retomar lo puede cualquiera que vea
// la auditoría; cancelar o reabrir una cancelada requiere canCreateActions.
func (uc *ActionUseCase) ChangeStatus(ctx context.Context, s access.Session, id string, in dto.ChangeActionStatusRequest) (*dto.ActionResponse, error) {
	act, err := uc.loadAction(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if (in.Status == entity.ActionStatusCancelled || in.Status == entity.ActionStatusPending) && !access.CanCreateActions(s) {
		return nil, domain.ErrForbidden
	}
	now := uc.Now()
	from := act.Status
	if err := actionplan.ApplyStatus(act, in.Status, now); err != nil {
		return nil, err
	}
	if err := uc.Actions.Update(ctx, act); err != nil {
		return nil, err
	}
	uc.Log.Info().Str("action_id", act.ID).Str("from", from).Str("to", act.Status).Str("actor", s.UserID).Msg("estado de acción actualizado")
	out := toActionResponse(act, now)
	return &out, nil
}

// Delete borra una acción (ADMIN/AMONT).
func (uc *ActionUseCase) Delete(ctx context.Context, s access.Session, id string) error {
	if !s.Can(access.ActionManageActions) {
		return domain.ErrForbidden
	}
	act, err := uc.loadAction(ctx, s, id)
	if err != nil {
		return err
	}
	return uc.Actions.Delete(ctx, act.ID)
}

func (uc *ActionUseCase) loadAction(ctx context.Context, s access.Session, id string) (*entity.ActionPlan, error) {
	act, err := uc.Actions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener acción: %w", err)
	}
	if act == nil {
		return nil, domain.ErrActionNotFound
	}
	if _, err := uc.loadAudit(ctx, s, act.AuditID); err != nil {
		return nil, err
	}
	return act, nil
}
