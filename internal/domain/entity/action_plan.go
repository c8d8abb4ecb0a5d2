package entity

import "time"

// Estados de un plan de acción.
const (
	ActionStatusPending    = "pending"
	ActionStatusInProgress = "in_progress"
	ActionStatusCompleted  = "completed"
	ActionStatusCancelled  = "cancelled"
)

// Responsables posibles de un plan de acción.
const (
	ResponsibleDOT      = "DOT"
	ResponsibleAderente = "Aderente"
	ResponsibleBoth     = "Both"
)

// ActionPlan acción correctiva ligada a una auditoría y, opcionalmente, a un criterio.
// Las acciones con criterio las genera el sistema o el auditor; las demás son libres.
type ActionPlan struct {
	ID            string
	AuditID       string
	CriteriaID    *string
	Title         string
	Description   string
	Responsible   string
	DueDate       time.Time
	Status        string
	Progress      int // 0..100
	CreatedBy     string
	CompletedDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActionFilter criterios del listado global de acciones.
// Audits restringe a las acciones de auditorías que cumplen ese filtro (Limit y Offset no aplican).
type ActionFilter struct {
	Audits   AuditFilter
	OnlyOpen bool
}

// IsOpen informa si la acción sigue pendiente de cierre.
func (a *ActionPlan) IsOpen() bool {
	return a.Status == ActionStatusPending || a.Status == ActionStatusInProgress
}

// ValidResponsible informa si r es un responsable admitido.
func ValidResponsible(r string) bool {
	switch r {
	case ResponsibleDOT, ResponsibleAderente, ResponsibleBoth:
		return true
	}
	return false
}

// ValidActionStatus informa si s es un estado de acción admitido.
func ValidActionStatus(s string) bool {
	switch s {
	case ActionStatusPending, ActionStatusInProgress, ActionStatusCompleted, ActionStatusCancelled:
		return true
	}
	return false
}
