package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/usecase"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Webhook      webhookProcessor
	InvoiceUC    *usecase.InvoiceQueryUseCase
	WebhookLogUC *usecase.WebhookLogUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhooks (público; autenticado por firma)
	webhookHandler := NewWebhookHandler(deps.Webhook)
	app.Post("/webhooks/bling", webhookHandler.Receive)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleOperador, jwt.RoleViewer)

	invoices := api.Group("/invoices", readers)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/stats", invoiceHandler.Stats)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// El log incluye cabeceras y cuerpos: solo admin y operador
	logs := api.Group("/webhook-logs", RequireRole(jwt.RoleAdmin, jwt.RoleOperador))
	logHandler := NewWebhookLogHandler(deps.WebhookLogUC)
	logs.Get("/", logHandler.List)
	logs.Get("/:id", logHandler.GetByID)
}
