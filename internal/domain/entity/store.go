package entity

import "time"

// Store representa un punto de venta auditable.
// Tiene como máximo un DOT responsable y un Aderente (vínculo 1:1); reasignar sobrescribe.
type Store struct {
	ID         string
	Codehex    string // código de negocio único
	Name       string
	Brand      string
	City       string
	Size       string
	DotUserID  *string
	AderenteID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
