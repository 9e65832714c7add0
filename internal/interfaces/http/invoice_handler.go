package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/dto"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/usecase"
)

// InvoiceHandler consultas de notas fiscales sincronizadas (protegido).
type InvoiceHandler struct {
	uc *usecase.InvoiceQueryUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *usecase.InvoiceQueryUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// List lista notas fiscales con filtros.
// GET /api/invoices?kind=&status=&from=&to=&limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	if err := dto.Validate(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return writeError(c, err, "nota fiscal no encontrada")
	}
	return c.JSON(out)
}

// Stats devuelve conteos y sumas por tipo y situación.
// GET /api/invoices/stats?from=&to=
func (h *InvoiceHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err, "sin datos")
	}
	return c.JSON(out)
}

// GetByID obtiene el detalle de una nota fiscal, con el payload original.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err, "nota fiscal no encontrada")
	}
	return c.JSON(out)
}

// DownloadPDF devuelve el resumen PDF de la nota fiscal.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DownloadPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "nota fiscal no encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
