package entity

import "time"

// AuditComment entrada de discusión de una auditoría (solo se agregan, nunca se editan).
// IsInternal limita la visibilidad al nivel DOT y superiores.
type AuditComment struct {
	ID         string
	AuditID    string
	UserID     string
	Body       string
	IsInternal bool
	CreatedAt  time.Time
}
