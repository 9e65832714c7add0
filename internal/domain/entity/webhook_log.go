package entity

import "time"

// WebhookLogStatus resultado de un intento de procesamiento.
type WebhookLogStatus string

const (
	WebhookLogSuccess WebhookLogStatus = "success"
	WebhookLogError   WebhookLogStatus = "error"
)

// WebhookLogEntry registro inmutable de un intento de procesamiento de webhook.
// Se escribe una vez por intento y nunca se modifica ni se elimina.
type WebhookLogEntry struct {
	ID               string
	EventID          string
	EventType        string
	ResourceID       *string
	Status           WebhookLogStatus
	StatusCode       int
	ErrorMessage     *string
	ErrorDetail      *string
	ProcessingTimeMs int64
	RequestHeaders   map[string]string
	RequestBody      []byte // JSON; si el cuerpo no era JSON válido se guarda como string JSON
	ResponseBody     []byte // JSON
	SourceIP         *string
	UserAgent        *string
	Signature        *string
	SignatureValid   bool
	RetryAttempt     int
	ProcessedAt      time.Time
}

// Succeeded indica si el intento terminó con éxito.
func (e *WebhookLogEntry) Succeeded() bool {
	return e != nil && e.Status == WebhookLogSuccess
}
