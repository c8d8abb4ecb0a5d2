package entity

import (
	"strings"
	"time"
)

// Role etiqueta de rol de un usuario.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "ADMIN"
	RoleAmont    Role = "AMONT"
	RoleDOT      Role = "DOT"
	RoleAderente Role = "ADERENTE"
)

// legacyRoles etiquetas heredadas de la primera versión del sistema y su rol actual.
// Las etiquetas sin equivalente se conservan pero no otorgan capacidades.
var legacyRoles = map[string]Role{
	"ROLE_ADMIN":  RoleAdmin,
	"SUPERVISOR":  RoleAmont,
	"AREA":        RoleAmont,
	"AUDITOR":     RoleDOT,
	"STORE":       RoleAderente,
	"STORE_OWNER": RoleAderente,
}

// ParseRole normaliza una etiqueta de rol (mayúsculas, alias heredados).
func ParseRole(s string) Role {
	tag := strings.ToUpper(strings.TrimSpace(s))
	if r, ok := legacyRoles[tag]; ok {
		return r
	}
	return Role(tag)
}

// ParseRoles normaliza una lista de etiquetas y elimina duplicados y vacíos.
func ParseRoles(tags []string) []Role {
	out := make([]Role, 0, len(tags))
	seen := make(map[Role]bool, len(tags))
	for _, t := range tags {
		r := ParseRole(t)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// IsKnown informa si el rol es uno de los cuatro niveles actuales.
func (r Role) IsKnown() bool {
	switch r {
	case RoleAdmin, RoleAmont, RoleDOT, RoleAderente:
		return true
	}
	return false
}

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID             string
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Roles          []Role
	AmontID        *string  // supervisor del DOT (solo DOT)
	AssignedStores []string // informativo; el conjunto efectivo de un DOT sale de stores.dot_user_id
	Status         string   // active, inactive
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasRole informa si el usuario tiene el rol indicado.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleStrings devuelve los roles como strings (claims JWT, persistencia).
func (u *User) RoleStrings() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, string(r))
	}
	return out
}
