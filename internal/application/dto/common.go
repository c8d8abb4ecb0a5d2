package dto

// Límites de paginación de los listados.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage acota Limit a 1..MaxPageLimit (0 usa DefaultPageLimit) y Offset a >= 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (UNAUTHORIZED, FORBIDDEN,
// NOT_FOUND, INVALID_TRANSITION, AUDIT_LOCKED, INCOMPLETE_AUDIT, VALIDATION...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
