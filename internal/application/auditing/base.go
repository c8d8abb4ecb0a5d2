// Package auditing orquesta el ciclo de vida de auditorías y visitas: permisos de la sesión,
// máquina de estados, agregación de puntuaciones y generación de planes de acción,
// sobre los puertos de repositorio del dominio.
package auditing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/audit"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
	"github.com/jhoicas/retail-audit-api/pkg/logger"
)

// Deps dependencias compartidas por los casos de uso del paquete.
type Deps struct {
	Audits     repository.AuditRepository
	Scores     repository.ScoreRepository
	Actions    repository.ActionPlanRepository
	Comments   repository.CommentRepository
	Checklists repository.ChecklistRepository
	Stores     repository.StoreRepository
	Users      repository.UserRepository
	Visits     repository.VisitRepository
	Tx         TxRunner
	Metrics    Metrics
	Log        *logger.Logger
	Policy     Policy
	Now        func() time.Time // nil = time.Now
	NewID      func() string    // nil = uuid v4
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Metrics == nil {
		d.Metrics = NopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = func() string { return uuid.New().String() }
	}
	return base{Deps: d}
}

// ── Alcance de la sesión ──────────────────────────────────────────────────────

// scope conjunto de auditorías/visitas que la sesión puede ver.
// ADMIN ve todo; el resto ve lo que ejecutó y lo de sus tiendas:
// AMONT las de los DOT de su equipo, DOT las suyas, ADERENTE la tienda vinculada.
type scope struct {
	all      bool
	none     bool
	userID   string
	storeIDs map[string]bool
}

func (b base) resolveScope(ctx context.Context, s access.Session) (scope, error) {
	if s.Anonymous() {
		return scope{none: true}, nil
	}
	if s.Has(entity.RoleAdmin) {
		return scope{all: true}, nil
	}
	sc := scope{userID: s.UserID, storeIDs: map[string]bool{}}
	known := false
	if s.Has(entity.RoleAmont) {
		known = true
		team, err := b.Users.ListByAmont(ctx, s.UserID)
		if err != nil {
			return scope{}, fmt.Errorf("scope: equipo amont: %w", err)
		}
		ids := make([]string, 0, len(team))
		for _, u := range team {
			ids = append(ids, u.ID)
		}
		if len(ids) > 0 {
			stores, err := b.Stores.ListByDOT(ctx, ids...)
			if err != nil {
				return scope{}, fmt.Errorf("scope: tiendas del equipo: %w", err)
			}
			sc.addStores(stores...)
		}
	}
	if s.Has(entity.RoleDOT) {
		known = true
		stores, err := b.Stores.ListByDOT(ctx, s.UserID)
		if err != nil {
			return scope{}, fmt.Errorf("scope: tiendas dot: %w", err)
		}
		sc.addStores(stores...)
	}
	if s.Has(entity.RoleAderente) {
		known = true
		st, err := b.Stores.GetByAderente(ctx, s.UserID)
		if err != nil {
			return scope{}, fmt.Errorf("scope: tienda aderente: %w", err)
		}
		if st != nil {
			sc.addStores(st)
		}
	}
	if !known {
		return scope{none: true}, nil
	}
	return sc, nil
}

func (sc *scope) addStores(stores ...*entity.Store) {
	for _, st := range stores {
		sc.storeIDs[st.ID] = true
	}
}

func (sc scope) allows(storeID, performerID string) bool {
	switch {
	case sc.none:
		return false
	case sc.all:
		return true
	}
	return performerID == sc.userID || sc.storeIDs[storeID]
}

// apply restringe el filtro al alcance. Devuelve false si el resultado es vacío por definición.
func (sc scope) apply(f entity.AuditFilter) (entity.AuditFilter, bool) {
	if sc.none {
		return f, false
	}
	if sc.all {
		return f, true
	}
	f.UserID = sc.userID
	f.StoreIDs = make([]string, 0, len(sc.storeIDs))
	for id := range sc.storeIDs {
		f.StoreIDs = append(f.StoreIDs, id)
	}
	return f, true
}

// ── Carga con control de visibilidad ──────────────────────────────────────────

// loadAudit obtiene la auditoría y verifica que la sesión pueda verla.
func (b base) loadAudit(ctx context.Context, s access.Session, id string) (*entity.Audit, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id de auditoría vacío", domain.ErrInvalidInput)
	}
	a, err := b.Audits.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener auditoría: %w", err)
	}
	if a == nil {
		return nil, domain.ErrAuditNotFound
	}
	sc, err := b.resolveScope(ctx, s)
	if err != nil {
		return nil, err
	}
	if !sc.allows(a.StoreID, a.UserID) {
		return nil, fmt.Errorf("%w: auditoría fuera del alcance de la sesión", domain.ErrForbidden)
	}
	return a, nil
}

// subjectOf arma el Subject de la máquina de estados (ejecutor y DOT de la tienda).
func (b base) subjectOf(ctx context.Context, a *entity.Audit) (audit.Subject, error) {
	performer, err := b.Users.GetByID(ctx, a.UserID)
	if err != nil {
		return audit.Subject{}, fmt.Errorf("obtener ejecutor: %w", err)
	}
	store, err := b.Stores.GetByID(ctx, a.StoreID)
	if err != nil {
		return audit.Subject{}, fmt.Errorf("obtener tienda: %w", err)
	}
	return audit.SubjectFromAudit(a, performer, store), nil
}

// resolvePerformer valida el ejecutor pedido. Solo un supervisor programa para otro usuario,
// y el ejecutor debe ser DOT o Aderente.
func (b base) resolvePerformer(ctx context.Context, s access.Session, requested string) (*entity.User, error) {
	performerID := requested
	if performerID == "" {
		performerID = s.UserID
	}
	if performerID != s.UserID && !s.IsSupervisor() {
		return nil, fmt.Errorf("%w: solo ADMIN o AMONT programan para otro usuario", domain.ErrForbidden)
	}
	u, err := b.Users.GetByID(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("obtener ejecutor: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if !u.HasRole(entity.RoleDOT) && !u.HasRole(entity.RoleAderente) {
		return nil, fmt.Errorf("%w: el ejecutor debe ser DOT o Aderente", domain.ErrRoleMismatch)
	}
	return u, nil
}

// transitionApplied registra una transición aplicada.
func (b base) transitionApplied(kind audit.Kind, id string, from, to entity.AuditStatus, s access.Session) {
	b.Metrics.TransitionApplied(kind.String(), from.String(), to.String())
	b.Log.WithActor(s.UserID, s.RoleStrings()).Info().
		Str("kind", kind.String()).
		Str("id", id).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("transición aplicada")
}

// transitionRejected registra una transición rechazada por estado o permiso.
func (b base) transitionRejected(kind audit.Kind, id string, ev audit.Event, s access.Session, err error) {
	b.Metrics.TransitionRejected(kind.String(), string(ev))
	b.Log.WithActor(s.UserID, s.RoleStrings()).Debug().
		Str("kind", kind.String()).
		Str("id", id).
		Str("event", string(ev)).
		Err(err).
		Msg("transición rechazada")
}
