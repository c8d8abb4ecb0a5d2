package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
)

// VisitHandler visitas sin puntuación.
type VisitHandler struct {
	uc *auditing.VisitUseCase
}

// NewVisitHandler construye el handler.
func NewVisitHandler(uc *auditing.VisitUseCase) *VisitHandler {
	return &VisitHandler{uc: uc}
}

// Create godoc
// @Summary      Programar visita
// @Tags         visits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVisitRequest  true  "Tienda, tipo y ejecutor"
// @Success      201   {object}  dto.VisitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/visits [post]
func (h *VisitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVisitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.StoreID == "" || in.Type == "" {
		return validation(c, "store_id y type son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar visitas visibles para la sesión
// @Tags         visits
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "Estado"
// @Param        store_id  query  string  false  "Tienda"
// @Param        from      query  string  false  "Desde"
// @Param        to        query  string  false  "Hasta"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200       {object}  dto.VisitListResponse
// @Router       /api/visits [get]
func (h *VisitHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), listRequestFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado de la visita
// @Description  start (NEW→IN_PROGRESS), end (IN_PROGRESS→ENDED), close (ENDED→CLOSED), cancel.
// @Tags         visits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la visita"
// @Success      200  {object}  dto.VisitResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/visits/{id}/start [post]
// @Router       /api/visits/{id}/end [post]
// @Router       /api/visits/{id}/close [post]
// @Router       /api/visits/{id}/cancel [post]
func (h *VisitHandler) Transition(event string) fiber.Handler {
	apply := map[string]func(context.Context, access.Session, string) (*dto.VisitResponse, error){
		"start":  h.uc.Start,
		"end":    h.uc.End,
		"close":  h.uc.Close,
		"cancel": h.uc.Cancel,
	}[event]
	return func(c *fiber.Ctx) error {
		if apply == nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "evento desconocido"})
		}
		out, err := apply(c.UserContext(), GetSession(c), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}
