package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	appwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/webhook"
)

// webhookProcessor contrato mínimo del pipeline de ingesta; lo implementa *appwebhook.Service.
type webhookProcessor interface {
	ProcessWebhook(ctx context.Context, req appwebhook.Request) appwebhook.ProcessingResult
}

const transportBodyFactor = 4

// TransportBodyLimit es el BodyLimit de fiber para un límite de pipeline dado. Los cuerpos
// entre ambos llegan al servicio, que los rechaza con 400 y deja registro; fiber solo corta
// los que superan el techo.
func TransportBodyLimit(pipelineLimit int) int {
	if pipelineLimit <= 0 {
		return fiber.DefaultBodyLimit
	}
	return pipelineLimit * transportBodyFactor
}

// WebhookHandler recibe las entregas de Bling (público, autenticado por firma HMAC).
type WebhookHandler struct {
	svc webhookProcessor
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(svc webhookProcessor) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// Receive procesa una entrega. La firma se calcula sobre los bytes crudos del cuerpo,
// por eso se copia BodyRaw antes de cualquier parseo.
// POST /webhooks/bling
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(k, v []byte) {
		headers[string(k)] = string(v)
	})

	res := h.svc.ProcessWebhook(c.Context(), appwebhook.Request{
		RawBody:      append([]byte(nil), c.BodyRaw()...),
		Headers:      headers,
		SourceIP:     c.IP(),
		RetryAttempt: appwebhook.ParseRetryAttempt(c.Get(appwebhook.HeaderRetryAttempt)),
	})
	return c.Status(res.StatusCode).JSON(res.Body())
}
