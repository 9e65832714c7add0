package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
)

var _ appwebhook.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunWebhook inicia una transacción, toma pg_advisory_xact_lock sobre lockKey, ejecuta fn con
// repos atados a la tx y hace Commit o Rollback. El lock se libera con la transacción, así que
// entregas concurrentes del mismo (eventId, retryAttempt) se serializan y la segunda ve el
// registro de éxito ya confirmado.
func (r *TxRunner) RunWebhook(ctx context.Context, lockKey string, fn func(
	invoiceRepo repository.InvoiceRepository,
	logRepo repository.WebhookLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	if err := fn(NewInvoiceRepository(tx), NewWebhookLogRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
