package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/pkg/jwt"
)

// Locals keys para la sesión en Fiber.
const (
	LocalUserID  = "user_id"
	LocalSession = "session"
)

// AuthMiddleware valida el Bearer Token JWT y carga en c.Locals el UserID y la
// access.Session (roles normalizados) que consumen los casos de uso.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, roles, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalSession, access.NewSession(userID, roles))
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetSession devuelve la sesión del contexto; vacía (sin roles) si no hay.
func GetSession(c *fiber.Ctx) access.Session {
	s, _ := c.Locals(LocalSession).(access.Session)
	return s
}

// RequireCapability corta con 403 si ningún rol de la sesión concede la acción.
// Debe usarse DESPUÉS de AuthMiddleware. Las reglas que dependen del estado o del
// dueño de la auditoría se evalúan en los casos de uso.
func RequireCapability(action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s.Anonymous() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada"})
		}
		if !s.Can(action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "sus roles no permiten " + string(action),
			})
		}
		return c.Next()
	}
}
