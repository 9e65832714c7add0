package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind tipo de nota fiscal según el ERP (entrada/salida).
type InvoiceKind string

const (
	InvoiceKindInbound  InvoiceKind = "inbound"  // tipo 0 en Bling (entrada)
	InvoiceKindOutbound InvoiceKind = "outbound" // tipo 1 en Bling (saída)
)

// Valid indica si el tipo es uno de los conocidos.
func (k InvoiceKind) Valid() bool {
	return k == InvoiceKindInbound || k == InvoiceKindOutbound
}

// Invoice representa una nota fiscal sincronizada desde el ERP.
// ExternalID es la clave natural: a lo sumo una fila por ExternalID.
type Invoice struct {
	ID                string
	ExternalID        string
	Kind              InvoiceKind
	Status            int // situacao del ERP
	Number            string
	IssuedAt          time.Time
	OperationAt       time.Time
	ContactID         *string
	OperationNatureID *string
	StoreID           *string
	TotalValue        decimal.Decimal
	RawPayload        []byte // evento original, sin re-serializar
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
