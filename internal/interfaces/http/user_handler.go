package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/application/usecase"
)

// UserHandler administración de usuarios y consulta de equipo/tiendas.
type UserHandler struct {
	uc     *usecase.UserUseCase
	stores *usecase.StoreUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, stores *usecase.StoreUseCase) *UserHandler {
	return &UserHandler{uc: uc, stores: stores}
}

// Create godoc
// @Summary      Crear usuario
// @Description  Solo ADMIN. Roles: ADMIN, AMONT, DOT, ADERENTE (se aceptan etiquetas heredadas).
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" || in.Name == "" || len(in.Roles) == 0 {
		return validation(c, "email, password, name y roles son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.UserListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Team godoc
// @Summary      DOTs supervisados por un AMONT
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del AMONT"
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/team [get]
func (h *UserHandler) Team(c *fiber.Ctx) error {
	out, err := h.uc.Team(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stores godoc
// @Summary      Tiendas efectivas de un usuario
// @Description  DOT: tiendas donde es responsable. ADERENTE: su tienda vinculada.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {array}   dto.StoreResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/stores [get]
func (h *UserHandler) Stores(c *fiber.Ctx) error {
	out, err := h.stores.ListUserStores(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// pageFromQuery limit/offset con los límites de siempre (1..100, >= 0).
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
