package dto

import (
	"encoding/json"
	"time"
)

// WebhookLogListRequest filtros del listado del log de webhooks.
type WebhookLogListRequest struct {
	PageRequest
	Status    string `query:"status" validate:"omitempty,oneof=success error"`
	EventType string `query:"event_type"`
	From      string `query:"from"`
	To        string `query:"to"`
}

// WebhookLogResponse registro del log en respuestas de la API.
// Los cuerpos solo se incluyen en el detalle.
type WebhookLogResponse struct {
	ID               string            `json:"id"`
	EventID          string            `json:"event_id"`
	EventType        string            `json:"event_type"`
	ResourceID       *string           `json:"resource_id,omitempty"`
	Status           string            `json:"status"`
	StatusCode       int               `json:"status_code"`
	ErrorMessage     *string           `json:"error_message,omitempty"`
	ErrorDetail      *string           `json:"error_detail,omitempty"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	SourceIP         *string           `json:"source_ip,omitempty"`
	UserAgent        *string           `json:"user_agent,omitempty"`
	SignatureValid   bool              `json:"signature_valid"`
	RetryAttempt     int               `json:"retry_attempt"`
	ProcessedAt      time.Time         `json:"processed_at"`
	RequestHeaders   map[string]string `json:"request_headers,omitempty"`
	RequestBody      json.RawMessage   `json:"request_body,omitempty"`
	ResponseBody     json.RawMessage   `json:"response_body,omitempty"`
}

// WebhookLogListResponse página del log.
type WebhookLogListResponse struct {
	Items []WebhookLogResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
