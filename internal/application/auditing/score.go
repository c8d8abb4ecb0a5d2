package auditing

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// UpsertScore guarda la puntuación de un criterio (una fila por auditoría y criterio; gana la última escritura).
// La primera puntuación no nula de una auditoría NEW la pasa a IN_PROGRESS.
func (uc *AuditUseCase) UpsertScore(ctx context.Context, s access.Session, auditID, criteriaID string, in dto.UpsertScoreRequest) (*dto.ScoreResponse, error) {
	a, err := uc.loadAudit(ctx, s, auditID)
	if err != nil {
		return nil, err
	}
	if err := audit.EnsureContentEditable(s, a); err != nil {
		return nil, err
	}
	if in.Score != nil && !entity.ValidScore(*in.Score) {
		return nil, fmt.Errorf("%w: puntuación %d fuera de 0..%d", domain.ErrInvalidInput, *in.Score, entity.ScoreMax)
	}
	cl, err := uc.Checklists.GetByID(ctx, a.ChecklistID)
	if err != nil {
		return nil, fmt.Errorf("obtener checklist: %w", err)
	}
	if cl == nil {
		return nil, domain.ErrChecklistNotFound
	}
	if _, ok := cl.FindCriterion(criteriaID); !ok {
		return nil, fmt.Errorf("%w: el criterio %s no pertenece al checklist", domain.ErrInvalidInput, criteriaID)
	}

	existing, err := uc.Scores.ListByAudit(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener puntuaciones: %w", err)
	}
	row := &entity.AuditScore{ID: uc.NewID(), AuditID: a.ID, CriteriaID: criteriaID}
	for _, sc := range existing {
		if sc.CriteriaID == criteriaID {
			row = sc
			break
		}
	}
	row.Score = in.Score
	if in.Comment != nil {
		row.Comment = *in.Comment
	}
	if in.Photos != nil {
		row.Photos = in.Photos
	}
	row.UpdatedBy = s.UserID
	row.UpdatedAt = uc.Now()
	if err := uc.Scores.Upsert(ctx, row); err != nil {
		return nil, err
	}
	uc.Metrics.ScoreWritten()

	if a.Status == entity.StatusNew && in.Score != nil {
		if err := uc.start(ctx, s, a); err != nil {
			return nil, err
		}
	}
	out := toScoreResponse(row)
	return &out, nil
}

// start NEW → IN_PROGRESS, disparado por la primera puntuación.
func (uc *AuditUseCase) start(ctx context.Context, s access.Session, a *entity.Audit) error {
	subj, err := uc.subjectOf(ctx, a)
	if err != nil {
		return err
	}
	to, err := audit.Apply(s, subj, audit.EventStart)
	if err != nil {
		uc.transitionRejected(audit.KindAudit, a.ID, audit.EventStart, s, err)
		return err
	}
	if err := uc.Audits.Update(ctx, a.ID, entity.AuditUpdate{Status: &to}); err != nil {
		return err
	}
	uc.transitionApplied(audit.KindAudit, a.ID, a.Status, to, s)
	a.Status = to
	return nil
}
