package auditing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/scoring"
)

// AuditUseCase programación, consulta, puntuación y ciclo de vida de auditorías.
type AuditUseCase struct {
	base
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(d Deps) *AuditUseCase {
	return &AuditUseCase{base: newBase(d)}
}

// Create programa una auditoría en estado NEW.
func (uc *AuditUseCase) Create(ctx context.Context, s access.Session, in dto.CreateAuditRequest) (*dto.AuditResponse, error) {
	if !access.CanCreateAudit(s) {
		return nil, domain.ErrForbidden
	}
	if in.StoreID == "" || in.ChecklistID == "" {
		return nil, fmt.Errorf("%w: store_id y checklist_id son requeridos", domain.ErrInvalidInput)
	}
	store, err := uc.Stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, fmt.Errorf("obtener tienda: %w", err)
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	cl, err := uc.Checklists.GetByID(ctx, in.ChecklistID)
	if err != nil {
		return nil, fmt.Errorf("obtener checklist: %w", err)
	}
	if cl == nil {
		return nil, domain.ErrChecklistNotFound
	}
	performer, err := uc.resolvePerformer(ctx, s, in.UserID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	start := now
	if in.DtStart != nil {
		start = *in.DtStart
	}
	a := &entity.Audit{
		ID:          uc.NewID(),
		StoreID:     store.ID,
		UserID:      performer.ID,
		ChecklistID: cl.ID,
		CreatedBy:   s.UserID,
		DtStart:     start,
		Status:      entity.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Audits.Create(ctx, a); err != nil {
		return nil, err
	}
	uc.Log.Info().
		Str("audit_id", a.ID).
		Str("store_id", a.StoreID).
		Str("user_id", a.UserID).
		Str("actor", s.UserID).
		Msg("auditoría programada")
	return toAuditResponse(a), nil
}

// Get devuelve la auditoría con sus puntuaciones, el desglose por sección y los permisos de la sesión.
func (uc *AuditUseCase) Get(ctx context.Context, s access.Session, id string) (*dto.AuditDetailResponse, error) {
	a, err := uc.loadAudit(ctx, s, id)
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
	subj, err := uc.subjectOf(ctx, a)
	if err != nil {
		return nil, err
	}

	rep := scoring.ByChecklist(cl, scores)
	out := &dto.AuditDetailResponse{
		AuditResponse: *toAuditResponse(a),
		Scores:        make([]dto.ScoreResponse, 0, len(scores)),
		Sections:      make([]dto.SectionScoreResponse, 0, len(rep.Sections)),
		Total:         toSummaryResponse(rep.Total),
		Permissions:   permissionsFor(s, subj),
	}
	for _, sc := range scores {
		out.Scores = append(out.Scores, toScoreResponse(sc))
	}
	for _, sec := range rep.Sections {
		out.Sections = append(out.Sections, dto.SectionScoreResponse{
			SectionID: sec.SectionID,
			Name:      sec.Name,
			Summary:   toSummaryResponse(sec.Summary),
		})
	}
	return out, nil
}

func permissionsFor(s access.Session, subj audit.Subject) dto.AuditPermissions {
	can := func(ev audit.Event) bool {
		_, err := audit.Apply(s, subj, ev)
		return err == nil
	}
	return dto.AuditPermissions{
		CanEdit:    access.CanEditAudit(s, subj.Status, subj.PerformerID),
		CanSubmit:  can(audit.EventSubmit),
		CanReview:  can(audit.EventApprove),
		CanClose:   can(audit.EventClose),
		CanCancel:  can(audit.EventCancel),
		CanDelete:  access.CanDeleteAudit(s),
		CanActions: access.CanCreateActions(s),
	}
}

// List lista las auditorías visibles para la sesión.
func (uc *AuditUseCase) List(ctx context.Context, s access.Session, req dto.AuditListRequest) (*dto.AuditListResponse, error) {
	req.DefaultPage()
	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}
	sc, err := uc.resolveScope(ctx, s)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditListResponse{
		Items: []dto.AuditResponse{},
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}
	filter, ok := sc.apply(filter)
	if !ok {
		return out, nil
	}
	list, err := uc.Audits.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar auditorías: %w", err)
	}
	for _, a := range list {
		out.Items = append(out.Items, *toAuditResponse(a))
	}
	return out, nil
}

// visibleBatch tamaño de página al recorrer todas las auditorías visibles.
const visibleBatch = 500

// Visible devuelve, sin paginar, las auditorías con dtstart en [from, to] que la sesión puede ver.
func (uc *AuditUseCase) Visible(ctx context.Context, s access.Session, from, to time.Time) ([]*entity.Audit, error) {
	sc, err := uc.resolveScope(ctx, s)
	if err != nil {
		return nil, err
	}
	filter, ok := sc.apply(entity.AuditFilter{From: &from, To: &to, Limit: visibleBatch})
	if !ok {
		return nil, nil
	}
	var out []*entity.Audit
	for {
		page, err := uc.Audits.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("listar auditorías: %w", err)
		}
		out = append(out, page...)
		if len(page) < visibleBatch {
			return out, nil
		}
		filter.Offset += visibleBatch
	}
}

func buildFilter(req dto.AuditListRequest) (entity.AuditFilter, error) {
	f := entity.AuditFilter{StoreID: req.StoreID, Limit: req.Limit, Offset: req.Offset}
	if req.Status != "" {
		statuses, err := audit.ParseStatusFilter(strings.ToUpper(req.Status))
		if err != nil {
			return f, err
		}
		f.Statuses = statuses
	}
	var err error
	if f.From, err = parseDate(req.From); err != nil {
		return f, err
	}
	if f.To, err = parseDate(req.To); err != nil {
		return f, err
	}
	return f, nil
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, v)
}

// UpdateAuditorComments reemplaza los comentarios generales del auditor (solo antes de SUBMITTED).
func (uc *AuditUseCase) UpdateAuditorComments(ctx context.Context, s access.Session, id string, in dto.UpdateAuditorCommentsRequest) (*dto.AuditResponse, error) {
	a, err := uc.loadAudit(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if err := audit.EnsureContentEditable(s, a); err != nil {
		return nil, err
	}
	comments := in.AuditorComments
	if err := uc.Audits.Update(ctx, a.ID, entity.AuditUpdate{AuditorComments: &comments}); err != nil {
		return nil, err
	}
	a.AuditorComments = comments
	a.UpdatedAt = uc.Now()
	return toAuditResponse(a), nil
}

// Delete borrado administrativo. Las auditorías con planes de acción no se borran:
// las acciones nunca se eliminan en cascada.
func (uc *AuditUseCase) Delete(ctx context.Context, s access.Session, id string) error {
	if !access.CanDeleteAudit(s) {
		return domain.ErrForbidden
	}
	a, err := uc.loadAudit(ctx, s, id)
	if err != nil {
		return err
	}
	actions, err := uc.Actions.List(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("obtener acciones: %w", err)
	}
	if len(actions) > 0 {
		return fmt.Errorf("%w: la auditoría tiene %d planes de acción", domain.ErrConflict, len(actions))
	}
	if err := uc.Audits.Delete(ctx, a.ID); err != nil {
		return err
	}
	uc.Log.Info().Str("audit_id", a.ID).Str("actor", s.UserID).Msg("auditoría eliminada")
	return nil
}
