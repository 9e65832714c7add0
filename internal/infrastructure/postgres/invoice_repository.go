package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, external_id, kind, status, number, issued_at, operation_at,
	contact_id, operation_nature_id, store_id, total_value, raw_payload, created_at, updated_at`

// Upsert inserta o sobreescribe por external_id en una sola sentencia.
// Con concurrencia sobre el mismo external_id Postgres serializa en el índice único.
func (r *InvoiceRepo) Upsert(ctx context.Context, invoice *entity.Invoice) (string, error) {
	query := `
		INSERT INTO invoices (id, external_id, kind, status, number, issued_at, operation_at,
		                      contact_id, operation_nature_id, store_id, total_value, raw_payload,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, clock_timestamp(), clock_timestamp())
		ON CONFLICT (external_id) DO UPDATE SET
		    kind                = EXCLUDED.kind,
		    status              = EXCLUDED.status,
		    number              = EXCLUDED.number,
		    issued_at           = EXCLUDED.issued_at,
		    operation_at        = EXCLUDED.operation_at,
		    contact_id          = EXCLUDED.contact_id,
		    operation_nature_id = EXCLUDED.operation_nature_id,
		    store_id            = EXCLUDED.store_id,
		    total_value         = EXCLUDED.total_value,
		    raw_payload         = EXCLUDED.raw_payload,
		    updated_at          = clock_timestamp()
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		uuid.New().String(), invoice.ExternalID, string(invoice.Kind), invoice.Status, invoice.Number,
		invoice.IssuedAt, invoice.OperationAt,
		invoice.ContactID, invoice.OperationNatureID, invoice.StoreID,
		invoice.TotalValue, rawJSON(invoice.RawPayload),
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("upsert invoice: %w", err)
	}
	return invoice.ID, nil
}

// DeleteByExternalID borra la fila y devuelve su id interno.
func (r *InvoiceRepo) DeleteByExternalID(ctx context.Context, externalID string) (string, bool, error) {
	var id string
	err := r.q.QueryRow(ctx, `DELETE FROM invoices WHERE external_id = $1 RETURNING id`, externalID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("delete invoice: %w", err)
	}
	return id, true, nil
}

// GetByID obtiene una nota fiscal por ID interno.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByExternalID obtiene una nota fiscal por el id del ERP.
func (r *InvoiceRepo) GetByExternalID(ctx context.Context, externalID string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE external_id = $1`, externalID)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List lista notas fiscales filtradas, más recientes primero, con el total sin paginar.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	w := invoiceWhere(filter.Kind, filter.Status, filter.From, filter.To)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query, args := w.page(`SELECT `+invoiceColumns+` FROM invoices`+w.sql()+` ORDER BY issued_at DESC, id`, filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return list, total, nil
}

// Stats agrupa por tipo y situación en el rango de emisión.
func (r *InvoiceRepo) Stats(ctx context.Context, from, to *time.Time) ([]repository.InvoiceStatsRow, error) {
	w := invoiceWhere(nil, nil, from, to)
	query := `
		SELECT kind, status, COUNT(*), COALESCE(SUM(total_value), 0)
		FROM invoices` + w.sql() + `
		GROUP BY kind, status
		ORDER BY kind, status`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("invoice stats: %w", err)
	}
	defer rows.Close()
	var out []repository.InvoiceStatsRow
	for rows.Next() {
		var s repository.InvoiceStatsRow
		var kind string
		if err := rows.Scan(&kind, &s.Status, &s.Count, &s.TotalValue); err != nil {
			return nil, fmt.Errorf("scan invoice stats: %w", err)
		}
		s.Kind = entity.InvoiceKind(kind)
		out = append(out, s)
	}
	return out, rows.Err()
}

func invoiceWhere(kind *entity.InvoiceKind, status *int, from, to *time.Time) *whereBuilder {
	w := &whereBuilder{}
	if kind != nil {
		w.add("kind = $%d", string(*kind))
	}
	if status != nil {
		w.add("status = $%d", *status)
	}
	if from != nil {
		w.add("issued_at >= $%d", *from)
	}
	if to != nil {
		w.add("issued_at < $%d", *to)
	}
	return w
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var kind string
	err := row.Scan(
		&inv.ID, &inv.ExternalID, &kind, &inv.Status, &inv.Number, &inv.IssuedAt, &inv.OperationAt,
		&inv.ContactID, &inv.OperationNatureID, &inv.StoreID, &inv.TotalValue, &inv.RawPayload,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Kind = entity.InvoiceKind(kind)
	return &inv, nil
}

// rawJSON pasa los bytes como texto JSON; nil se guarda como NULL.
func rawJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
