// Package access resuelve qué puede hacer una sesión a partir de su conjunto de roles.
// Todas las funciones son puras: dependen solo de la Session recibida y de la entidad
// consultada, nunca de estado global.
package access

import "github.com/jhoicas/retail-audit-api/internal/domain/entity"

// Session identidad y roles del llamante, tal como los entrega la capa de transporte.
// El núcleo confía en ella; la autenticación ocurre fuera.
type Session struct {
	UserID string
	Roles  []entity.Role
}

// NewSession construye una sesión normalizando las etiquetas de rol.
func NewSession(userID string, roleTags []string) Session {
	return Session{UserID: userID, Roles: entity.ParseRoles(roleTags)}
}

// Has informa si la sesión tiene el rol.
func (s Session) Has(role entity.Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny informa si la sesión tiene alguno de los roles.
func (s Session) HasAny(roles ...entity.Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// IsSupervisor ADMIN o AMONT.
func (s Session) IsSupervisor() bool {
	return s.HasAny(entity.RoleAdmin, entity.RoleAmont)
}

// Anonymous informa si la sesión no identifica a nadie.
func (s Session) Anonymous() bool {
	return s.UserID == ""
}

// RoleStrings devuelve los roles como strings.
func (s Session) RoleStrings() []string {
	out := make([]string, 0, len(s.Roles))
	for _, r := range s.Roles {
		out = append(out, string(r))
	}
	return out
}
