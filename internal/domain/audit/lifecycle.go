package audit

import (
	"errors"
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// Subject lo que la máquina necesita saber de la auditoría o visita para decidir.
type Subject struct {
	Kind        Kind
	Status      entity.AuditStatus
	PerformerID string
	// PerformerIsAderente la ejecutó un Aderente (visita cruzada entre tiendas).
	PerformerIsAderente bool
	// StoreDOTID DOT responsable de la tienda auditada, si lo hay.
	StoreDOTID string
}

// SubjectFromAudit construye el Subject de una auditoría.
func SubjectFromAudit(a *entity.Audit, performer *entity.User, store *entity.Store) Subject {
	s := Subject{Kind: KindAudit, Status: a.Status, PerformerID: a.UserID}
	if performer != nil {
		s.PerformerIsAderente = performer.HasRole(entity.RoleAderente) && !performer.HasRole(entity.RoleDOT)
	}
	if store != nil && store.DotUserID != nil {
		s.StoreDOTID = *store.DotUserID
	}
	return s
}

// SubjectFromVisit construye el Subject de una visita.
func SubjectFromVisit(v *entity.Visit) Subject {
	return Subject{Kind: KindVisit, Status: v.Status, PerformerID: v.UserID}
}

// Authorize comprueba si la sesión puede disparar ev sobre el sujeto, sin mirar el estado.
// Devuelve un error que envuelve domain.ErrForbidden o nil.
func Authorize(s access.Session, subj Subject, ev Event) error {
	if allowed(s, subj, ev) {
		return nil
	}
	return fmt.Errorf("%w: %s no puede %s este %s", domain.ErrForbidden, s.UserID, ev, subj.Kind)
}

func allowed(s access.Session, subj Subject, ev Event) bool {
	isPerformer := s.UserID != "" && s.UserID == subj.PerformerID
	switch ev {
	case EventStart, EventEnd:
		return s.Can(access.ActionEditAudit) && (isPerformer || s.IsSupervisor())
	case EventSubmit:
		return s.Can(access.ActionSubmitAudit) && (isPerformer || s.Has(entity.RoleAdmin))
	case EventApprove, EventReject:
		if !s.Can(access.ActionReviewAudit) {
			return false
		}
		if s.IsSupervisor() {
			return true
		}
		// DOT: solo visitas de un Aderente sobre una tienda a su cargo.
		return s.Has(entity.RoleDOT) && subj.PerformerIsAderente &&
			subj.StoreDOTID != "" && subj.StoreDOTID == s.UserID
	case EventClose:
		return s.Can(access.ActionCloseAudit)
	case EventCancel:
		return s.Can(access.ActionCancelAudit)
	}
	return false
}

// Apply valida ev sobre el sujeto y devuelve el nuevo estado.
// Si el movimiento es inválido y además no está permitido, el error agrupa ambos
// (errors.Is funciona con domain.ErrInvalidTransition y domain.ErrForbidden).
func Apply(s access.Session, subj Subject, ev Event) (entity.AuditStatus, error) {
	to, transErr := Next(subj.Kind, subj.Status, ev)
	permErr := Authorize(s, subj, ev)
	if err := errors.Join(transErr, permErr); err != nil {
		return subj.Status, err
	}
	return to, nil
}

// TransitionTo igual que Apply pero expresado como estado destino.
func TransitionTo(s access.Session, subj Subject, to entity.AuditStatus) (entity.AuditStatus, error) {
	ev := targetEvent(subj.Kind, subj.Status, to)
	if ev == "" {
		return subj.Status, fmt.Errorf("%w: %s hacia %s", domain.ErrInvalidTransition, subj.Kind, to)
	}
	if _, ok := EventFor(subj.Kind, subj.Status, to); !ok {
		transErr := fmt.Errorf("%w: %s de %s a %s", domain.ErrInvalidTransition, subj.Kind, subj.Status, to)
		return subj.Status, errors.Join(transErr, Authorize(s, subj, ev))
	}
	return Apply(s, subj, ev)
}

// EnsureContentEditable verifica que las puntuaciones y comentarios del auditor se puedan modificar.
// Devuelve domain.ErrAuditLocked si el estado es >= SUBMITTED y domain.ErrForbidden si la
// sesión no es el ejecutor ni un supervisor.
func EnsureContentEditable(s access.Session, a *entity.Audit) error {
	if !a.Status.ContentEditable() {
		return fmt.Errorf("%w: estado %s", domain.ErrAuditLocked, a.Status)
	}
	if !access.CanEditAudit(s, a.Status, a.UserID) {
		return domain.ErrForbidden
	}
	return nil
}
