// Package audit contiene la máquina de estados de auditorías y visitas.
//
// Ciclo de una auditoría:
//
//	NEW ─start─▶ IN_PROGRESS ─submit─▶ SUBMITTED ─approve─▶ ENDED ─close─▶ CLOSED
//	                  ▲                     │
//	                  └──────reject─────────┘
//	NEW | IN_PROGRESS | SUBMITTED ─cancel─▶ CANCELLED
//
// Las visitas no pasan por SUBMITTED: IN_PROGRESS ─end─▶ ENDED.
package audit

import (
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// Kind distingue auditorías (con puntuación) de visitas.
type Kind int

const (
	KindAudit Kind = iota
	KindVisit
)

func (k Kind) String() string {
	if k == KindVisit {
		return "visit"
	}
	return "audit"
}

// Event disparador de una transición.
type Event string

// Eventos del ciclo de vida.
const (
	EventStart   Event = "start"   // NEW → IN_PROGRESS (auditorías: automático con la primera puntuación)
	EventSubmit  Event = "submit"  // IN_PROGRESS → SUBMITTED (solo auditorías)
	EventApprove Event = "approve" // SUBMITTED → ENDED
	EventReject  Event = "reject"  // SUBMITTED → IN_PROGRESS
	EventEnd     Event = "end"     // IN_PROGRESS → ENDED (solo visitas)
	EventClose   Event = "close"   // ENDED → CLOSED
	EventCancel  Event = "cancel"  // cualquier estado previo a ENDED → CANCELLED
)

type edge struct {
	from  entity.AuditStatus
	event Event
}

var auditEdges = map[edge]entity.AuditStatus{
	{entity.StatusNew, EventStart}:         entity.StatusInProgress,
	{entity.StatusInProgress, EventSubmit}: entity.StatusSubmitted,
	{entity.StatusSubmitted, EventApprove}: entity.StatusEnded,
	{entity.StatusSubmitted, EventReject}:  entity.StatusInProgress,
	{entity.StatusEnded, EventClose}:       entity.StatusClosed,
	{entity.StatusNew, EventCancel}:        entity.StatusCancelled,
	{entity.StatusInProgress, EventCancel}: entity.StatusCancelled,
	{entity.StatusSubmitted, EventCancel}:  entity.StatusCancelled,
}

var visitEdges = map[edge]entity.AuditStatus{
	{entity.StatusNew, EventStart}:         entity.StatusInProgress,
	{entity.StatusInProgress, EventEnd}:    entity.StatusEnded,
	{entity.StatusEnded, EventClose}:       entity.StatusClosed,
	{entity.StatusNew, EventCancel}:        entity.StatusCancelled,
	{entity.StatusInProgress, EventCancel}: entity.StatusCancelled,
}

func edgesFor(kind Kind) map[edge]entity.AuditStatus {
	if kind == KindVisit {
		return visitEdges
	}
	return auditEdges
}

// Next devuelve el estado destino de aplicar ev sobre from.
// Error envuelve domain.ErrInvalidTransition si la arista no existe.
func Next(kind Kind, from entity.AuditStatus, ev Event) (entity.AuditStatus, error) {
	to, ok := edgesFor(kind)[edge{from, ev}]
	if !ok {
		return from, fmt.Errorf("%w: %s %s desde %s", domain.ErrInvalidTransition, kind, ev, from)
	}
	return to, nil
}

// EventFor deduce el evento que lleva de from a to.
// ok=false si no existe ninguna arista entre ambos estados.
func EventFor(kind Kind, from, to entity.AuditStatus) (Event, bool) {
	for e, dst := range edgesFor(kind) {
		if e.from == from && dst == to {
			return e.event, true
		}
	}
	return "", false
}

// CanTransition informa si existe una arista from → to.
func CanTransition(kind Kind, from, to entity.AuditStatus) bool {
	_, ok := EventFor(kind, from, to)
	return ok
}

// IsMonotonic informa si el paso from → to respeta el orden del ciclo.
// La única vuelta atrás admitida es el rechazo SUBMITTED → IN_PROGRESS.
func IsMonotonic(from, to entity.AuditStatus) bool {
	if from == entity.StatusSubmitted && to == entity.StatusInProgress {
		return true
	}
	return to >= from
}

// targetEvent evento implícito al pedir un estado destino, aunque la arista no exista.
// Sirve para evaluar el permiso del movimiento pedido junto con su validez.
func targetEvent(kind Kind, from, to entity.AuditStatus) Event {
	if ev, ok := EventFor(kind, from, to); ok {
		return ev
	}
	switch to {
	case entity.StatusInProgress:
		return EventStart
	case entity.StatusSubmitted:
		return EventSubmit
	case entity.StatusEnded:
		if kind == KindVisit {
			return EventEnd
		}
		return EventApprove
	case entity.StatusClosed:
		return EventClose
	case entity.StatusCancelled:
		return EventCancel
	}
	return ""
}
