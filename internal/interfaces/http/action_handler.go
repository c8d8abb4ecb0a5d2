package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
)

// ActionHandler planes de acción.
type ActionHandler struct {
	uc *auditing.ActionUseCase
}

// NewActionHandler construye el handler.
func NewActionHandler(uc *auditing.ActionUseCase) *ActionHandler {
	return &ActionHandler{uc: uc}
}

// ListByAudit godoc
// @Summary      Planes de acción de una auditoría
// @Tags         actions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  dto.ActionListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/actions [get]
func (h *ActionHandler) ListByAudit(c *fiber.Ctx) error {
	out, err := h.uc.ListByAudit(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear plan de acción manual
// @Tags         actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la auditoría"
// @Param        body  body  dto.CreateActionRequest  true  "Plan de acción"
// @Success      201   {object}  dto.ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/actions [post]
func (h *ActionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateActionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Title == "" || in.Responsible == "" {
		return validation(c, "title y responsible son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AutoGenerate godoc
// @Summary      Generar planes de acción a partir de las notas 1-2
// @Description  Idempotente: no duplica criterios que ya tienen acción.
// @Tags         actions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  dto.ActionListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/actions/auto-generate [post]
func (h *ActionHandler) AutoGenerate(c *fiber.Ctx) error {
	out, err := h.uc.AutoGenerate(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Planes de acción visibles para la sesión
// @Tags         actions
// @Security     Bearer
// @Produce      json
// @Param        open  query  bool  false  "Solo pendientes o en curso"
// @Success      200   {object}  dto.ActionListResponse
// @Router       /api/actions [get]
func (h *ActionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), c.QueryBool("open", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar plan de acción
// @Description  Progreso: responsable o supervisores. Resto de campos: autor o supervisores.
// @Tags         actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del plan"
// @Param        body  body  dto.UpdateActionRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ActionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/actions/{id} [put]
func (h *ActionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateActionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del plan de acción
// @Tags         actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del plan"
// @Param        body  body  dto.ChangeActionStatusRequest  true  "pending, in_progress, completed, cancelled"
// @Success      200   {object}  dto.ActionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/actions/{id}/status [post]
func (h *ActionHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeActionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Status == "" {
		return validation(c, "status es requerido")
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar plan de acción
// @Tags         actions
// @Security     Bearer
// @Param        id   path  string  true  "ID del plan"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/actions/{id} [delete]
func (h *ActionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
