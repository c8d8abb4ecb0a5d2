package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
)

// AuditHandler ciclo de vida de auditorías, puntuaciones e informe.
type AuditHandler struct {
	uc     *auditing.AuditUseCase
	report *auditing.ReportUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *auditing.AuditUseCase, report *auditing.ReportUseCase) *AuditHandler {
	return &AuditHandler{uc: uc, report: report}
}

// Create godoc
// @Summary      Programar auditoría
// @Description  user_id vacío = la realiza el propio usuario. Solo ADMIN/AMONT programan para otros.
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAuditRequest  true  "Tienda, checklist y ejecutor"
// @Success      201   {object}  dto.AuditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/audits [post]
func (h *AuditHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.StoreID == "" || in.ChecklistID == "" {
		return validation(c, "store_id y checklist_id son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar auditorías visibles para la sesión
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "NEW, IN_PROGRESS, SUBMITTED, ENDED, CLOSED, CANCELLED (o heredados)"
// @Param        store_id  query  string  false  "Tienda"
// @Param        from      query  string  false  "Desde (2006-01-02 o RFC3339)"
// @Param        to        query  string  false  "Hasta (2006-01-02 o RFC3339)"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200       {object}  dto.AuditListResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/audits [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), listRequestFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de auditoría
// @Description  Incluye puntuaciones, porcentaje por sección, total y permisos de la sesión.
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  dto.AuditDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id} [get]
func (h *AuditHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar auditoría
// @Description  ADMIN/AMONT. Rechazado con 409 si tiene planes de acción.
// @Tags         audits
// @Security     Bearer
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id} [delete]
func (h *AuditHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateAuditorComments godoc
// @Summary      Comentarios generales del auditor
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID de la auditoría"
// @Param        body  body  dto.UpdateAuditorCommentsRequest  true  "Comentarios"
// @Success      200   {object}  dto.AuditResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/comments-auditor [put]
func (h *AuditHandler) UpdateAuditorComments(c *fiber.Ctx) error {
	var in dto.UpdateAuditorCommentsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateAuditorComments(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpsertScore godoc
// @Summary      Puntuar un criterio
// @Description  score null = sin puntuar, 0 = N/A, 1..5. Arranca la auditoría si estaba en NEW.
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id          path  string                  true  "ID de la auditoría"
// @Param        criteriaId  path  string                  true  "ID del criterio"
// @Param        body        body  dto.UpsertScoreRequest  true  "Puntuación"
// @Success      200         {object}  dto.ScoreResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      409         {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/scores/{criteriaId} [put]
func (h *AuditHandler) UpsertScore(c *fiber.Ctx) error {
	var in dto.UpsertScoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpsertScore(c.UserContext(), GetSession(c), c.Params("id"), c.Params("criteriaId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Finalize godoc
// @Summary      Finalizar (IN_PROGRESS → SUBMITTED)
// @Description  Congela la puntuación y genera los planes de acción de los criterios con nota 1-2.
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/finalize [post]
func (h *AuditHandler) Finalize(c *fiber.Ctx) error {
	out, err := h.uc.Finalize(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar (SUBMITTED → ENDED)
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/approve [post]
func (h *AuditHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar (SUBMITTED → IN_PROGRESS)
// @Description  El motivo se guarda como comentario y la puntuación congelada se descarta.
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la auditoría"
// @Param        body  body  dto.RejectAuditRequest  true  "Motivo"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/reject [post]
func (h *AuditHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Reason == "" {
		return validation(c, "reason es requerido")
	}
	out, err := h.uc.Reject(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar (ENDED → CLOSED)
// @Description  Avisa (sin bloquear) si quedan planes de acción abiertos.
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/close [post]
func (h *AuditHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.Close(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/cancel [post]
func (h *AuditHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Informe PDF
// @Tags         audits
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la auditoría"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/report.pdf [get]
func (h *AuditHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.report.Download(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

func listRequestFromQuery(c *fiber.Ctx) dto.AuditListRequest {
	return dto.AuditListRequest{
		Status:      c.Query("status"),
		StoreID:     c.Query("store_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		PageRequest: pageFromQuery(c),
	}
}
