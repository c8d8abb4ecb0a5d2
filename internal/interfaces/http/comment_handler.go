package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
)

// CommentHandler hilo de comentarios de una auditoría.
type CommentHandler struct {
	uc *auditing.CommentUseCase
}

// NewCommentHandler construye el handler.
func NewCommentHandler(uc *auditing.CommentUseCase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

// List godoc
// @Summary      Comentarios de la auditoría
// @Description  Los internos solo se devuelven a DOT y superiores.
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {array}   dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/comments [get]
func (h *CommentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Agregar comentario
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la auditoría"
// @Param        body  body  dto.CreateCommentRequest  true  "Comentario"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/comments [post]
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Body == "" {
		return validation(c, "body es requerido")
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
