package webhook

import (
	"context"
	"time"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción que primero toma un lock exclusivo
// sobre lockKey (se libera al terminar la transacción).
type TxRunner interface {
	RunWebhook(ctx context.Context, lockKey string, fn func(
		invoiceRepo repository.InvoiceRepository,
		logRepo repository.WebhookLogRepository,
	) error) error
}

// ReplayCache caché opcional de respuestas exitosas por (eventId, retryAttempt).
// El log de webhooks sigue siendo la fuente de verdad; la caché solo evita la transacción.
type ReplayCache interface {
	Get(ctx context.Context, eventID string, retryAttempt int) (resourceID string, found bool, err error)
	Put(ctx context.Context, eventID string, retryAttempt int, resourceID string) error
}

// Config parámetros del pipeline inyectados en el constructor.
type Config struct {
	ClientSecret string
	MaxRetries   int
	Timeout      time.Duration
	Location     *time.Location // zona para fechas del ERP sin offset
	MaxBodyBytes int            // 0 = sin límite en el pipeline
}

const (
	DefaultMaxRetries = 10
	DefaultTimeout    = 5 * time.Second
	auditTimeout      = 3 * time.Second
)

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}
