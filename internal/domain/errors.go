package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrStoreNotFound      = errors.New("tienda no encontrada")
	ErrAuditNotFound      = errors.New("auditoría no encontrada")
	ErrVisitNotFound      = errors.New("visita no encontrada")
	ErrActionNotFound     = errors.New("plan de acción no encontrado")
	ErrChecklistNotFound  = errors.New("checklist no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrStoreCodeExists    = errors.New("el código de tienda ya existe")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Ciclo de vida de auditorías y visitas.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrAuditLocked       = errors.New("la auditoría ya no admite cambios de contenido")
	ErrIncompleteAudit   = errors.New("la auditoría tiene criterios sin puntuar")
	ErrRoleMismatch      = errors.New("el usuario no tiene el rol requerido")
)

// IsNotFound informa si err es cualquiera de los "no encontrado" del dominio.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrStoreNotFound) ||
		errors.Is(err, ErrAuditNotFound) ||
		errors.Is(err, ErrVisitNotFound) ||
		errors.Is(err, ErrActionNotFound) ||
		errors.Is(err, ErrChecklistNotFound)
}

// IsDuplicate informa si err es un conflicto de clave única.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrStoreCodeExists)
}
