package webhook

import (
	"context"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
)

// HandlerFunc aplica un evento ya enrutado sobre el repositorio y devuelve el resourceId.
type HandlerFunc func(ctx context.Context, invoiceRepo repository.InvoiceRepository) (string, error)

// Router despacha por tipo de evento:
//
//	invoice.* | consumer_invoice.*  →  .created/.updated → upsert, .deleted → delete
//
// Cualquier otro prefijo o sufijo es UnsupportedEventType.
type Router struct {
	upsert *InvoiceUpsertHandler
	delete *InvoiceDeleteHandler
}

func NewRouter(upsert *InvoiceUpsertHandler, del *InvoiceDeleteHandler) *Router {
	return &Router{upsert: upsert, delete: del}
}

// Route devuelve el handler para el evento o un *Error de tipo UnsupportedEventType.
func (r *Router) Route(evt *domainwebhook.Event) (HandlerFunc, error) {
	if evt.Family == "" {
		return nil, domainwebhook.UnsupportedEventTypeError(evt.EventType)
	}
	switch evt.Action {
	case domainwebhook.ActionCreated, domainwebhook.ActionUpdated:
		payload, ok := evt.Data.(*domainwebhook.InvoicePayload)
		if !ok {
			return nil, domainwebhook.InvalidStructureError("data does not match " + evt.EventType)
		}
		isUpdate := evt.Action == domainwebhook.ActionUpdated
		return func(ctx context.Context, invoiceRepo repository.InvoiceRepository) (string, error) {
			return r.upsert.Handle(ctx, invoiceRepo, payload, isUpdate, evt)
		}, nil
	case domainwebhook.ActionDeleted:
		payload, ok := evt.Data.(*domainwebhook.DeletedPayload)
		if !ok {
			return nil, domainwebhook.InvalidStructureError("data does not match " + evt.EventType)
		}
		return func(ctx context.Context, invoiceRepo repository.InvoiceRepository) (string, error) {
			return r.delete.Handle(ctx, invoiceRepo, payload)
		}, nil
	default:
		return nil, domainwebhook.UnsupportedEventTypeError(evt.EventType)
	}
}
