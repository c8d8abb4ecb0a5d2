package actionplan

import (
	"fmt"
	"time"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// transitions estado actual → destinos admitidos.
// completed → in_progress y cancelled → pending son reaperturas.
var transitions = map[string][]string{
	entity.ActionStatusPending:    {entity.ActionStatusInProgress, entity.ActionStatusCompleted, entity.ActionStatusCancelled},
	entity.ActionStatusInProgress: {entity.ActionStatusCompleted, entity.ActionStatusCancelled},
	entity.ActionStatusCompleted:  {entity.ActionStatusInProgress},
	entity.ActionStatusCancelled:  {entity.ActionStatusPending},
}

// CanMove informa si la acción puede pasar de from a to.
func CanMove(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ApplyStatus cambia el estado de la acción y ajusta progreso y fecha de cierre.
// Completar fija progreso 100 y CompletedDate; reabrir limpia CompletedDate y conserva el progreso.
func ApplyStatus(a *entity.ActionPlan, to string, now time.Time) error {
	if !entity.ValidActionStatus(to) {
		return fmt.Errorf("%w: estado de acción %q", domain.ErrInvalidInput, to)
	}
	if !CanMove(a.Status, to) {
		return fmt.Errorf("%w: acción de %s a %s", domain.ErrInvalidTransition, a.Status, to)
	}
	switch to {
	case entity.ActionStatusCompleted:
		a.Progress = 100
		a.CompletedDate = &now
	case entity.ActionStatusInProgress, entity.ActionStatusPending:
		a.CompletedDate = nil
	}
	a.Status = to
	a.UpdatedAt = now
	return nil
}

// SetProgress actualiza el progreso (0..100) de una acción abierta.
// Alcanzar 100 no completa la acción: el cierre es una transición explícita.
func SetProgress(a *entity.ActionPlan, progress int, now time.Time) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: progreso %d fuera de 0..100", domain.ErrInvalidInput, progress)
	}
	if !a.IsOpen() {
		return fmt.Errorf("%w: la acción está %s", domain.ErrInvalidTransition, a.Status)
	}
	if a.Status == entity.ActionStatusPending && progress > 0 {
		a.Status = entity.ActionStatusInProgress
	}
	a.Progress = progress
	a.UpdatedAt = now
	return nil
}

// CountOpen número de acciones pendientes o en curso.
func CountOpen(actions []*entity.ActionPlan) int {
	n := 0
	for _, a := range actions {
		if a != nil && a.IsOpen() {
			n++
		}
	}
	return n
}
