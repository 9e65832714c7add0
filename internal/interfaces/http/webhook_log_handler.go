package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/dto"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/usecase"
)

// WebhookLogHandler consulta del log de auditoría de webhooks (protegido).
type WebhookLogHandler struct {
	uc *usecase.WebhookLogUseCase
}

// NewWebhookLogHandler construye el handler.
func NewWebhookLogHandler(uc *usecase.WebhookLogUseCase) *WebhookLogHandler {
	return &WebhookLogHandler{uc: uc}
}

// List GET /api/webhook-logs?status=&event_type=&from=&to=&limit=&offset=
func (h *WebhookLogHandler) List(c *fiber.Ctx) error {
	var in dto.WebhookLogListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	if err := dto.Validate(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return writeError(c, err, "registro no encontrado")
	}
	return c.JSON(out)
}

// GetByID GET /api/webhook-logs/:id (incluye cabeceras y cuerpos).
func (h *WebhookLogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "registro no encontrado")
	}
	return c.JSON(out)
}
