package webhook

import (
	"context"
	"time"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/logger"
)

// InvoiceUpsertHandler aplica invoice.created / invoice.updated.
type InvoiceUpsertHandler struct {
	loc *time.Location
	log *logger.Logger
}

func NewInvoiceUpsertHandler(loc *time.Location, log *logger.Logger) *InvoiceUpsertHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceUpsertHandler{loc: loc, log: log}
}

// Handle valida fechas, arma la Invoice y hace upsert atómico por external_id.
// created y updated usan la misma sentencia: un updated que llega antes del created converge igual.
func (h *InvoiceUpsertHandler) Handle(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	p *domainwebhook.InvoicePayload,
	isUpdate bool,
	evt *domainwebhook.Event,
) (string, error) {
	issuedAt, err := domainwebhook.ParseERPDate("dataEmissao", p.DataEmissao, h.loc)
	if err != nil {
		return "", err
	}
	operationAt, err := domainwebhook.ParseERPDate("dataOperacao", p.DataOperacao, h.loc)
	if err != nil {
		return "", err
	}

	inv := &entity.Invoice{
		ExternalID:        p.ResourceExternalID(),
		Kind:              kindFromTipo(*p.Tipo),
		Status:            p.Situacao,
		Number:            string(p.Numero),
		IssuedAt:          issuedAt,
		OperationAt:       operationAt,
		ContactID:         p.ContactID(),
		OperationNatureID: p.OperationNatureID(),
		StoreID:           p.StoreID(),
		TotalValue:        p.ValorNota,
		RawPayload:        evt.Raw,
	}

	id, err := invoiceRepo.Upsert(ctx, inv)
	if err != nil {
		return "", domainwebhook.StorageError("invoice upsert", err)
	}
	h.log.Debug().Str("invoice_id", id).Str("external_id", inv.ExternalID).Bool("is_update", isUpdate).
		Msg("invoice aplicada")
	return id, nil
}

// tipo 0 = entrada, 1 = saída en Bling.
func kindFromTipo(tipo int) entity.InvoiceKind {
	if tipo == 0 {
		return entity.InvoiceKindInbound
	}
	return entity.InvoiceKindOutbound
}

// InvoiceDeleteHandler aplica *.deleted (borrado físico).
type InvoiceDeleteHandler struct {
	log *logger.Logger
}

func NewInvoiceDeleteHandler(log *logger.Logger) *InvoiceDeleteHandler {
	return &InvoiceDeleteHandler{log: log}
}

// Handle borra por external_id. El resourceId es siempre el external_id: la fila ya no existe
// y si no había fila tampoco es error.
func (h *InvoiceDeleteHandler) Handle(ctx context.Context, invoiceRepo repository.InvoiceRepository, p *domainwebhook.DeletedPayload) (string, error) {
	externalID := p.ResourceExternalID()
	id, deleted, err := invoiceRepo.DeleteByExternalID(ctx, externalID)
	if err != nil {
		return "", domainwebhook.StorageError("invoice delete", err)
	}
	if deleted {
		h.log.Debug().Str("invoice_id", id).Str("external_id", externalID).Msg("invoice eliminada")
	} else {
		h.log.Debug().Str("external_id", externalID).Msg("invoice inexistente, nada que borrar")
	}
	return externalID, nil
}
