package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/dto"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
)

// InvoicePDFGenerator genera el resumen PDF de una nota fiscal sincronizada.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}

// InvoiceQueryUseCase consultas de solo lectura sobre notas fiscales.
type InvoiceQueryUseCase struct {
	repo      repository.InvoiceRepository
	generator InvoicePDFGenerator
}

// NewInvoiceQueryUseCase construye el caso de uso. generator puede ser nil (sin PDF).
func NewInvoiceQueryUseCase(repo repository.InvoiceRepository, generator InvoicePDFGenerator) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{repo: repo, generator: generator}
}

// List lista notas fiscales con filtros y paginación.
func (uc *InvoiceQueryUseCase) List(ctx context.Context, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	filter := repository.InvoiceFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset}
	if in.Kind != "" {
		kind := entity.InvoiceKind(in.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: kind debe ser inbound u outbound", domain.ErrInvalidInput)
		}
		filter.Kind = &kind
	}
	var err error
	if filter.From, filter.To, err = parseRange(in.From, in.To); err != nil {
		return nil, err
	}

	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv, false))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// GetByID devuelve la nota fiscal con su payload original. ErrNotFound si no existe.
func (uc *InvoiceQueryUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv, true), nil
}

// Stats agrega conteos y sumas por tipo y situación en el período [from, to).
func (uc *InvoiceQueryUseCase) Stats(ctx context.Context, fromParam, toParam string) (*dto.InvoiceStatsResponse, error) {
	from, to, err := parseRange(fromParam, toParam)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceStatsResponse{From: from, To: to, TotalValue: decimal.Zero, Groups: make([]dto.InvoiceStatsItem, 0, len(rows))}
	for _, r := range rows {
		out.TotalCount += r.Count
		out.TotalValue = out.TotalValue.Add(r.TotalValue)
		out.Groups = append(out.Groups, dto.InvoiceStatsItem{
			Kind:       string(r.Kind),
			Status:     r.Status,
			Count:      r.Count,
			TotalValue: r.TotalValue,
		})
	}
	return out, nil
}

// DownloadPDF genera el PDF de la nota fiscal y un nombre de archivo sugerido.
func (uc *InvoiceQueryUseCase) DownloadPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("%w: generación de PDF no configurada", domain.ErrInvalidInput)
	}
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener nota fiscal: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	number := inv.Number
	if number == "" {
		number = inv.ExternalID
	}
	return pdfBytes, fmt.Sprintf("nota_fiscal_%s.pdf", number), nil
}

func toInvoiceResponse(inv *entity.Invoice, withPayload bool) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                inv.ID,
		ExternalID:        inv.ExternalID,
		Kind:              string(inv.Kind),
		Status:            inv.Status,
		Number:            inv.Number,
		IssuedAt:          inv.IssuedAt,
		OperationAt:       inv.OperationAt,
		ContactID:         inv.ContactID,
		OperationNatureID: inv.OperationNatureID,
		StoreID:           inv.StoreID,
		TotalValue:        inv.TotalValue,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
	if withPayload && len(inv.RawPayload) > 0 {
		resp.RawPayload = inv.RawPayload
	}
	return resp
}

// parseRange interpreta from/to (YYYY-MM-DD o RFC3339). Vacío = sin límite.
func parseRange(fromParam, toParam string) (from, to *time.Time, err error) {
	if from, err = parseDateParam("from", fromParam); err != nil {
		return nil, nil, err
	}
	if to, err = parseDateParam("to", toParam); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseDateParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD o RFC3339", domain.ErrInvalidInput, name)
}
