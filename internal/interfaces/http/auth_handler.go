package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/auth"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
)

// AuthHandler maneja login y la consulta de capacidades de la sesión.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return validation(c, "email y password son requeridos")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Capabilities godoc
// @Summary      Capacidades de la sesión y panel por defecto
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  access.Capabilities
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me/capabilities [get]
func (h *AuthHandler) Capabilities(c *fiber.Ctx) error {
	return c.JSON(access.Resolve(GetSession(c)))
}
