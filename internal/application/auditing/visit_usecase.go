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

// VisitUseCase visitas sin puntuación (formación, seguimiento, otras).
type VisitUseCase struct {
	base
}

// NewVisitUseCase construye el caso de uso.
func NewVisitUseCase(d Deps) *VisitUseCase {
	return &VisitUseCase{base: newBase(d)}
}

// Create programa una visita en estado NEW.
func (uc *VisitUseCase) Create(ctx context.Context, s access.Session, in dto.CreateVisitRequest) (*dto.VisitResponse, error) {
	if !access.CanCreateAudit(s) {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidVisitType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de visita %q", domain.ErrInvalidInput, in.Type)
	}
	store, err := uc.Stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, fmt.Errorf("obtener tienda: %w", err)
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
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
	v := &entity.Visit{
		ID:        uc.NewID(),
		StoreID:   store.ID,
		UserID:    performer.ID,
		CreatedBy: s.UserID,
		Type:      in.Type,
		DtStart:   start,
		Status:    entity.StatusNew,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Visits.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVisitResponse(v), nil
}

// List visitas visibles para la sesión.
func (uc *VisitUseCase) List(ctx context.Context, s access.Session, req dto.AuditListRequest) (*dto.VisitListResponse, error) {
	req.DefaultPage()
	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}
	sc, err := uc.resolveScope(ctx, s)
	if err != nil {
		return nil, err
	}
	out := &dto.VisitListResponse{
		Items: []dto.VisitResponse{},
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}
	filter, ok := sc.apply(filter)
	if !ok {
		return out, nil
	}
	list, err := uc.Visits.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar visitas: %w", err)
	}
	for _, v := range list {
		out.Items = append(out.Items, *toVisitResponse(v))
	}
	return out, nil
}

// Start NEW → IN_PROGRESS.
func (uc *VisitUseCase) Start(ctx context.Context, s access.Session, id string) (*dto.VisitResponse, error) {
	return uc.transition(ctx, s, id, audit.EventStart)
}

// End IN_PROGRESS → ENDED. Fija dtend.
func (uc *VisitUseCase) End(ctx context.Context, s access.Session, id string) (*dto.VisitResponse, error) {
	return uc.transition(ctx, s, id, audit.EventEnd)
}

// Close ENDED → CLOSED.
func (uc *VisitUseCase) Close(ctx context.Context, s access.Session, id string) (*dto.VisitResponse, error) {
	return uc.transition(ctx, s, id, audit.EventClose)
}

// Cancel NEW | IN_PROGRESS → CANCELLED.
func (uc *VisitUseCase) Cancel(ctx context.Context, s access.Session, id string) (*dto.VisitResponse, error) {
	return uc.transition(ctx, s, id, audit.EventCancel)
}

func (uc *VisitUseCase) transition(ctx context.Context, s access.Session, id string, ev audit.Event) (*dto.VisitResponse, error) {
	v, err := uc.Visits.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener visita: %w", err)
	}
	if v == nil {
		return nil, domain.ErrVisitNotFound
	}
	sc, err := uc.resolveScope(ctx, s)
	if err != nil {
		return nil, err
	}
	if !sc.allows(v.StoreID, v.UserID) {
		return nil, fmt.Errorf("%w: visita fuera del alcance de la sesión", domain.ErrForbidden)
	}
	to, err := audit.Apply(s, audit.SubjectFromVisit(v), ev)
	if err != nil {
		uc.transitionRejected(audit.KindVisit, v.ID, ev, s, err)
		return nil, err
	}
	from := v.Status
	now := uc.Now()
	v.Status = to
	v.UpdatedAt = now
	if ev == audit.EventEnd {
		v.DtEnd = &now
	}
	if err := uc.Visits.Update(ctx, v); err != nil {
		return nil, err
	}
	uc.transitionApplied(audit.KindVisit, v.ID, from, to, s)
	return toVisitResponse(v), nil
}
