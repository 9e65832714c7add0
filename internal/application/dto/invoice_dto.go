package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceListRequest filtros del listado de notas fiscales (query string).
// Las fechas aceptan YYYY-MM-DD o RFC3339; To es exclusivo.
type InvoiceListRequest struct {
	PageRequest
	Kind   string `query:"kind" validate:"omitempty,oneof=inbound outbound"`
	Status *int   `query:"status"`
	From   string `query:"from"`
	To     string `query:"to"`
}

// InvoiceResponse nota fiscal en respuestas de la API.
type InvoiceResponse struct {
	ID                string          `json:"id"`
	ExternalID        string          `json:"external_id"`
	Kind              string          `json:"kind"`
	Status            int             `json:"status"`
	Number            string          `json:"number"`
	IssuedAt          time.Time       `json:"issued_at"`
	OperationAt       time.Time       `json:"operation_at"`
	ContactID         *string         `json:"contact_id,omitempty"`
	OperationNatureID *string         `json:"operation_nature_id,omitempty"`
	StoreID           *string         `json:"store_id,omitempty"`
	TotalValue        decimal.Decimal `json:"total_value"`
	RawPayload        json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InvoiceListResponse página de notas fiscales.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InvoiceStatsItem conteo y suma por tipo y situación.
type InvoiceStatsItem struct {
	Kind       string          `json:"kind"`
	Status     int             `json:"status"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// InvoiceStatsResponse agregados del período.
type InvoiceStatsResponse struct {
	From       *time.Time         `json:"from,omitempty"`
	To         *time.Time         `json:"to,omitempty"`
	TotalCount int                `json:"total_count"`
	TotalValue decimal.Decimal    `json:"total_value"`
	Groups     []InvoiceStatsItem `json:"groups"`
}
