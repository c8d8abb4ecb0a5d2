package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/usecase"
)

// ChecklistHandler lectura de plantillas.
type ChecklistHandler struct {
	uc *usecase.ChecklistUseCase
}

// NewChecklistHandler construye el handler.
func NewChecklistHandler(uc *usecase.ChecklistUseCase) *ChecklistHandler {
	return &ChecklistHandler{uc: uc}
}

// List godoc
// @Summary      Listar checklists (sin árbol)
// @Tags         checklists
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ChecklistResponse
// @Router       /api/checklists [get]
func (h *ChecklistHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Checklist con secciones, ítems y criterios
// @Tags         checklists
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del checklist"
// @Success      200  {object}  dto.ChecklistResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/checklists/{id} [get]
func (h *ChecklistHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Invalidar la caché de un checklist (ADMIN)
// @Tags         checklists
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del checklist"
// @Success      200  {object}  dto.ChecklistResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/checklists/{id}/refresh [post]
func (h *ChecklistHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
