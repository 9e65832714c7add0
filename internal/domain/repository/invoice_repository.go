package repository

import (
	"context"
	"time"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InvoiceFilter filtros del listado de notas fiscales. Campos nil = sin filtro.
type InvoiceFilter struct {
	Kind   *entity.InvoiceKind
	Status *int
	From   *time.Time // issued_at >= From
	To     *time.Time // issued_at < To
	Limit  int
	Offset int
}

// InvoiceStatsRow agregado por tipo y situación.
type InvoiceStatsRow struct {
	Kind       entity.InvoiceKind
	Status     int
	Count      int
	TotalValue decimal.Decimal
}

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Upsert inserta o actualiza por external_id en una sola sentencia
	// (INSERT ... ON CONFLICT) y devuelve el ID interno de la fila resultante.
	Upsert(ctx context.Context, invoice *entity.Invoice) (string, error)
	// DeleteByExternalID elimina la fila; deleted=false si no existía.
	DeleteByExternalID(ctx context.Context, externalID string) (id string, deleted bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)
	Stats(ctx context.Context, from, to *time.Time) ([]InvoiceStatsRow, error)
}
