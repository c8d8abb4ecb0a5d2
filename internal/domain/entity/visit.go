package entity

import "time"

// Tipos de visita sin puntuación.
const (
	VisitTypeTraining = "training"
	VisitTypeFollowUp = "follow_up"
	VisitTypeOther    = "other"
)

// Visit visita ligera (formación, seguimiento, otra). Comparte el enum de estados
// de Audit pero nunca pasa por SUBMITTED ni lleva checklist o puntuación.
type Visit struct {
	ID        string
	StoreID   string
	UserID    string
	CreatedBy string
	Type      string
	DtStart   time.Time
	DtEnd     *time.Time
	Status    AuditStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidVisitType informa si t es un tipo de visita conocido.
func ValidVisitType(t string) bool {
	switch t {
	case VisitTypeTraining, VisitTypeFollowUp, VisitTypeOther:
		return true
	}
	return false
}
