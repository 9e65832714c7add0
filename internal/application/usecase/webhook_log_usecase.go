package usecase

import (
	"context"
	"fmt"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/dto"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
)

// WebhookLogUseCase consultas sobre el log de auditoría de webhooks.
type WebhookLogUseCase struct {
	repo repository.WebhookLogRepository
}

func NewWebhookLogUseCase(repo repository.WebhookLogRepository) *WebhookLogUseCase {
	return &WebhookLogUseCase{repo: repo}
}

// List lista registros sin cuerpos ni cabeceras.
func (uc *WebhookLogUseCase) List(ctx context.Context, in dto.WebhookLogListRequest) (*dto.WebhookLogListResponse, error) {
	in.DefaultPage()
	filter := repository.WebhookLogFilter{EventType: in.EventType, Limit: in.Limit, Offset: in.Offset}
	switch entity.WebhookLogStatus(in.Status) {
	case "":
	case entity.WebhookLogSuccess, entity.WebhookLogError:
		status := entity.WebhookLogStatus(in.Status)
		filter.Status = &status
	default:
		return nil, fmt.Errorf("%w: status debe ser success o error", domain.ErrInvalidInput)
	}
	var err error
	if filter.From, filter.To, err = parseRange(in.From, in.To); err != nil {
		return nil, err
	}

	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WebhookLogResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toWebhookLogResponse(e, false))
	}
	return &dto.WebhookLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// GetByID devuelve el registro completo. ErrNotFound si no existe.
func (uc *WebhookLogUseCase) GetByID(ctx context.Context, id string) (*dto.WebhookLogResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return toWebhookLogResponse(e, true), nil
}

func toWebhookLogResponse(e *entity.WebhookLogEntry, full bool) *dto.WebhookLogResponse {
	resp := &dto.WebhookLogResponse{
		ID:               e.ID,
		EventID:          e.EventID,
		EventType:        e.EventType,
		ResourceID:       e.ResourceID,
		Status:           string(e.Status),
		StatusCode:       e.StatusCode,
		ErrorMessage:     e.ErrorMessage,
		ProcessingTimeMs: e.ProcessingTimeMs,
		SourceIP:         e.SourceIP,
		UserAgent:        e.UserAgent,
		SignatureValid:   e.SignatureValid,
		RetryAttempt:     e.RetryAttempt,
		ProcessedAt:      e.ProcessedAt,
	}
	if full {
		resp.ErrorDetail = e.ErrorDetail
		resp.RequestHeaders = e.RequestHeaders
		resp.RequestBody = e.RequestBody
		resp.ResponseBody = e.ResponseBody
	}
	return resp
}
