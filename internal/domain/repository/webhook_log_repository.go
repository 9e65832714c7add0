package repository

import (
	"context"
	"time"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
)

// WebhookLogFilter filtros del listado del log de webhooks.
type WebhookLogFilter struct {
	Status    *entity.WebhookLogStatus
	EventType string
	From      *time.Time // processed_at >= From
	To        *time.Time // processed_at < To
	Limit     int
	Offset    int
}

// WebhookLogRepository puerto del log de auditoría (solo inserción y lectura).
type WebhookLogRepository interface {
	Append(ctx context.Context, entry *entity.WebhookLogEntry) error
	// FindLatestAttempt devuelve el registro más reciente para (eventID, retryAttempt), o nil.
	FindLatestAttempt(ctx context.Context, eventID string, retryAttempt int) (*entity.WebhookLogEntry, error)
	GetByID(ctx context.Context, id string) (*entity.WebhookLogEntry, error)
	List(ctx context.Context, filter WebhookLogFilter) ([]*entity.WebhookLogEntry, int, error)
}
