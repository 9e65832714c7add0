package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
)

var _ repository.WebhookLogRepository = (*WebhookLogRepo)(nil)

// WebhookLogRepo log de auditoría append-only. No expone UPDATE ni DELETE.
type WebhookLogRepo struct {
	q Querier
}

// NewWebhookLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWebhookLogRepository(q Querier) *WebhookLogRepo {
	return &WebhookLogRepo{q: q}
}

const webhookLogColumns = `id, event_id, event_type, resource_id, status, status_code, error_message, error_detail,
	processing_time_ms, request_headers, request_body, response_body, source_ip, user_agent,
	signature, signature_valid, retry_attempt, processed_at`

// Append inserta el registro dentro de su propia (sub)transacción: sobre el pool es una
// transacción nueva, sobre una tx es un SAVEPOINT. Si el INSERT falla solo se deshace el
// savepoint y la transacción externa sigue utilizable.
func (r *WebhookLogRepo) Append(ctx context.Context, e *entity.WebhookLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin webhook log: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO webhook_logs (` + webhookLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = tx.Exec(ctx, query,
		e.ID, e.EventID, e.EventType, e.ResourceID, string(e.Status), e.StatusCode,
		e.ErrorMessage, e.ErrorDetail, e.ProcessingTimeMs,
		headersJSON(e.RequestHeaders), rawJSON(e.RequestBody), rawJSON(e.ResponseBody),
		e.SourceIP, e.UserAgent, e.Signature, e.SignatureValid, e.RetryAttempt, e.ProcessedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: webhook log %s", domain.ErrDuplicate, e.ID)
		}
		return fmt.Errorf("insert webhook log: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit webhook log: %w", err)
	}
	return nil
}

// FindLatestAttempt devuelve el registro más reciente de (eventID, retryAttempt) o nil.
func (r *WebhookLogRepo) FindLatestAttempt(ctx context.Context, eventID string, retryAttempt int) (*entity.WebhookLogEntry, error) {
	query := `SELECT ` + webhookLogColumns + `
		FROM webhook_logs
		WHERE event_id = $1 AND retry_attempt = $2
		ORDER BY processed_at DESC, seq DESC
		LIMIT 1`
	e, err := scanWebhookLog(r.q.QueryRow(ctx, query, eventID, retryAttempt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest webhook attempt: %w", err)
	}
	return e, nil
}

// GetByID obtiene un registro por ID.
func (r *WebhookLogRepo) GetByID(ctx context.Context, id string) (*entity.WebhookLogEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	e, err := scanWebhookLog(r.q.QueryRow(ctx, `SELECT `+webhookLogColumns+` FROM webhook_logs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook log: %w", err)
	}
	return e, nil
}

// List lista registros filtrados, más recientes primero.
func (r *WebhookLogRepo) List(ctx context.Context, filter repository.WebhookLogFilter) ([]*entity.WebhookLogEntry, int, error) {
	w := &whereBuilder{}
	if filter.Status != nil {
		w.add("status = $%d", string(*filter.Status))
	}
	if filter.EventType != "" {
		w.add("event_type = $%d", filter.EventType)
	}
	if filter.From != nil {
		w.add("processed_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("processed_at < $%d", *filter.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM webhook_logs`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count webhook logs: %w", err)
	}

	query, args := w.page(`SELECT `+webhookLogColumns+` FROM webhook_logs`+w.sql()+` ORDER BY processed_at DESC, seq DESC`, filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list webhook logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.WebhookLogEntry
	for rows.Next() {
		e, err := scanWebhookLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan webhook log: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list webhook logs: %w", err)
	}
	return list, total, nil
}

func scanWebhookLog(row pgx.Row) (*entity.WebhookLogEntry, error) {
	var e entity.WebhookLogEntry
	var status string
	err := row.Scan(
		&e.ID, &e.EventID, &e.EventType, &e.ResourceID, &status, &e.StatusCode, &e.ErrorMessage, &e.ErrorDetail,
		&e.ProcessingTimeMs, &e.RequestHeaders, &e.RequestBody, &e.ResponseBody, &e.SourceIP, &e.UserAgent,
		&e.Signature, &e.SignatureValid, &e.RetryAttempt, &e.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = entity.WebhookLogStatus(status)
	return &e, nil
}

func headersJSON(h map[string]string) map[string]string {
	if h == nil {
		return map[string]string{}
	}
	return h
}
