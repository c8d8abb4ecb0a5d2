package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditStatus estado del ciclo de vida compartido por auditorías y visitas.
// El orden numérico es significativo: el ciclo es monótono salvo el rechazo SUBMITTED→IN_PROGRESS.
type AuditStatus int

// Estados del ciclo de vida.
const (
	StatusNew        AuditStatus = 1
	StatusInProgress AuditStatus = 2
	StatusSubmitted  AuditStatus = 3
	StatusEnded      AuditStatus = 4
	StatusClosed     AuditStatus = 5
	StatusCancelled  AuditStatus = 6
)

var statusNames = map[AuditStatus]string{
	StatusNew:        "NEW",
	StatusInProgress: "IN_PROGRESS",
	StatusSubmitted:  "SUBMITTED",
	StatusEnded:      "ENDED",
	StatusClosed:     "CLOSED",
	StatusCancelled:  "CANCELLED",
}

// String devuelve el nombre del estado (NEW, IN_PROGRESS, ...).
func (s AuditStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// Valid informa si el valor es un estado definido.
func (s AuditStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsTerminal CLOSED y CANCELLED no admiten más transiciones.
func (s AuditStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// ContentEditable puntuaciones y comentarios del auditor solo se modifican antes de SUBMITTED.
func (s AuditStatus) ContentEditable() bool {
	return s == StatusNew || s == StatusInProgress
}

// ParseAuditStatus convierte el nombre de un estado. ok=false si no existe.
func ParseAuditStatus(name string) (AuditStatus, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Audit ejecución de un checklist sobre una tienda.
// UserID es quien la realiza (DOT o Aderente); CreatedBy quien la programó.
type Audit struct {
	ID              string
	StoreID         string
	UserID          string
	ChecklistID     string
	CreatedBy       string
	DtStart         time.Time
	DtEnd           *time.Time
	SubmittedAt     *time.Time
	Status          AuditStatus
	AuditorComments string
	Score           *decimal.Decimal // congelado al pasar a SUBMITTED
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AuditUpdate actualización parcial de una auditoría. Los campos nil no se tocan.
type AuditUpdate struct {
	Status          *AuditStatus
	DtEnd           *time.Time
	SubmittedAt     *time.Time
	Score           *decimal.Decimal
	ClearScore      bool
	AuditorComments *string
}

// AuditFilter criterios de listado. Los campos vacíos no filtran.
// Los criterios de alcance (StoreIDs, UserID) se combinan con OR; el resto con AND.
// Statuses coincide con cualquiera de los estados indicados.
type AuditFilter struct {
	StoreIDs []string
	UserID   string
	StoreID  string
	Statuses []AuditStatus
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
