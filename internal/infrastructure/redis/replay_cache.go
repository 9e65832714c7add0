package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/webhook"
)

const (
	defaultKeyPrefix = "webhook:replay:"
	defaultTTL       = 24 * time.Hour
)

var _ appwebhook.ReplayCache = (*ReplayCache)(nil)

// ReplayCache guarda el resourceId de cada (eventId, retryAttempt) ya confirmado.
// La fuente de verdad sigue siendo webhook_logs; aquí solo se acorta el camino.
type ReplayCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewReplayCache crea la caché. ttl <= 0 usa 24h; keyPrefix vacío usa "webhook:replay:".
func NewReplayCache(client *redis.Client, keyPrefix string, ttl time.Duration) *ReplayCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ReplayCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *ReplayCache) key(eventID string, retryAttempt int) string {
	return fmt.Sprintf("%s%s:%d", c.keyPrefix, eventID, retryAttempt)
}

// Get devuelve (resourceID, true, nil) si hay entrada; redis.Nil se traduce a ("", false, nil).
func (c *ReplayCache) Get(ctx context.Context, eventID string, retryAttempt int) (string, bool, error) {
	v, err := c.client.Get(ctx, c.key(eventID, retryAttempt)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get replay entry: %w", err)
	}
	return v, true, nil
}

// Put registra el resultado con expiración.
func (c *ReplayCache) Put(ctx context.Context, eventID string, retryAttempt int, resourceID string) error {
	if err := c.client.Set(ctx, c.key(eventID, retryAttempt), resourceID, c.ttl).Err(); err != nil {
		return fmt.Errorf("put replay entry: %w", err)
	}
	return nil
}

// Close cierra el cliente subyacente.
func (c *ReplayCache) Close() error {
	return c.client.Close()
}
