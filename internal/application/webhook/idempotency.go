package webhook

import (
	"context"
	"fmt"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/logger"
)

// Decision resultado de la consulta de idempotencia.
type Decision struct {
	Replay     bool
	ResourceID string
}

// IdempotencyGuard detecta pares (eventId, retryAttempt) ya procesados con éxito.
type IdempotencyGuard struct {
	cache ReplayCache // puede ser nil
	log   *logger.Logger
}

// NewIdempotencyGuard construye el guard. cache es opcional.
func NewIdempotencyGuard(cache ReplayCache, log *logger.Logger) *IdempotencyGuard {
	return &IdempotencyGuard{cache: cache, log: log}
}

// CheckCache consulta la caché. Un error de caché cuenta como miss.
func (g *IdempotencyGuard) CheckCache(ctx context.Context, eventID string, retryAttempt int) Decision {
	if g.cache == nil {
		return Decision{}
	}
	resourceID, found, err := g.cache.Get(ctx, eventID, retryAttempt)
	if err != nil {
		g.log.Warn().Err(err).Str("event_id", eventID).Int("retry_attempt", retryAttempt).
			Msg("replay cache no disponible, se consulta el log")
		return Decision{}
	}
	if !found {
		return Decision{}
	}
	return Decision{Replay: true, ResourceID: resourceID}
}

// Check consulta el registro más reciente del par en el log. Solo un éxito provoca replay;
// un error previo o la ausencia de registro dejan continuar.
func (g *IdempotencyGuard) Check(ctx context.Context, logRepo repository.WebhookLogRepository, eventID string, retryAttempt int) (Decision, error) {
	prev, err := logRepo.FindLatestAttempt(ctx, eventID, retryAttempt)
	if err != nil {
		return Decision{}, fmt.Errorf("find latest attempt: %w", err)
	}
	if !prev.Succeeded() {
		return Decision{}, nil
	}
	d := Decision{Replay: true}
	if prev.ResourceID != nil {
		d.ResourceID = *prev.ResourceID
	}
	return d, nil
}

// Remember guarda el éxito en la caché; los fallos solo se registran.
func (g *IdempotencyGuard) Remember(ctx context.Context, eventID string, retryAttempt int, resourceID string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Put(ctx, eventID, retryAttempt, resourceID); err != nil {
		g.log.Warn().Err(err).Str("event_id", eventID).Int("retry_attempt", retryAttempt).
			Msg("no se pudo guardar en replay cache")
	}
}
