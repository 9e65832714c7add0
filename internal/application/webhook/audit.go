package webhook

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	go_json "github.com/goccy/go-json"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/logger"
)

const redacted = "[REDACTED]"

// Cabeceras que nunca se guardan en claro.
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
}

// attempt acumula lo que se sabe de un intento a medida que avanza el pipeline.
type attempt struct {
	req            Request
	eventID        string
	eventType      string
	signatureValid bool
	bodyLimit      int
}

func (a *attempt) oversized() bool {
	return a.bodyLimit > 0 && len(a.req.RawBody) > a.bodyLimit
}

// storedBody es lo que se guarda en request_body: un cuerpo que excede el límite
// se corta al límite y se guarda como string JSON.
func (a *attempt) storedBody() []byte {
	if a.oversized() {
		return mustJSON(validUTF8(string(a.req.RawBody[:a.bodyLimit])))
	}
	return bodyAsJSON(a.req.RawBody)
}

// AuditLogger escribe exactamente un WebhookLogEntry por intento. Un fallo de escritura
// (LoggingFailure) solo se reporta por el log operativo.
type AuditLogger struct {
	logRepo repository.WebhookLogRepository
	log     *logger.Logger
	now     func() time.Time
}

func NewAuditLogger(logRepo repository.WebhookLogRepository, log *logger.Logger) *AuditLogger {
	return &AuditLogger{logRepo: logRepo, log: log, now: time.Now}
}

// RecordSuccess escribe el éxito con el repositorio indicado (el de la transacción en curso).
func (a *AuditLogger) RecordSuccess(ctx context.Context, logRepo repository.WebhookLogRepository, att *attempt, resourceID string, elapsedMs int64) {
	entry := a.build(att, elapsedMs)
	entry.Status = entity.WebhookLogSuccess
	entry.StatusCode = 200
	entry.ResourceID = &resourceID
	entry.ResponseBody = mustJSON(successBody(resourceID))
	a.append(ctx, logRepo, entry)
}

// RecordFailure escribe el error fuera de cualquier transacción de negocio. Usa un contexto
// propio para que un request expirado deje igualmente su registro.
func (a *AuditLogger) RecordFailure(ctx context.Context, att *attempt, res ProcessingResult, detail string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	entry := a.build(att, res.ProcessingTimeMs)
	entry.Status = entity.WebhookLogError
	entry.StatusCode = res.StatusCode
	msg := validUTF8(res.ErrorMessage)
	entry.ErrorMessage = &msg
	entry.ErrorDetail = optional(detail)
	entry.ResponseBody = mustJSON(errorBody(res.ErrorMessage))
	a.append(ctx, a.logRepo, entry)
}

func (a *AuditLogger) append(ctx context.Context, logRepo repository.WebhookLogRepository, entry *entity.WebhookLogEntry) {
	if err := logRepo.Append(ctx, entry); err != nil {
		a.log.Error().Err(err).
			Str("event_id", entry.EventID).
			Int("retry_attempt", entry.RetryAttempt).
			Str("status", string(entry.Status)).
			Msg("no se pudo escribir el log de webhook")
	}
}

func (a *AuditLogger) build(att *attempt, elapsedMs int64) *entity.WebhookLogEntry {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	entry := &entity.WebhookLogEntry{
		EventID:          orUnknown(att.eventID),
		EventType:        orUnknown(att.eventType),
		ProcessingTimeMs: elapsedMs,
		RequestHeaders:   sanitizeHeaders(att.req.Headers),
		RequestBody:      att.storedBody(),
		SourceIP:         optional(att.req.SourceIP),
		UserAgent:        optional(att.req.header(HeaderUserAgent)),
		Signature:        optional(att.req.header(HeaderSignature)),
		SignatureValid:   att.signatureValid,
		RetryAttempt:     att.req.RetryAttempt,
		ProcessedAt:      a.now().UTC(),
	}
	return entry
}

func sanitizeHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok {
			v = redacted
		}
		out[validUTF8(k)] = validUTF8(v)
	}
	return out
}

// bodyAsJSON devuelve el cuerpo si ya es JSON válido en UTF-8; si no, lo guarda como
// string JSON con los bytes inválidos reemplazados.
func bodyAsJSON(raw []byte) []byte {
	if len(raw) > 0 && utf8.Valid(raw) && go_json.Valid(raw) {
		return raw
	}
	return mustJSON(validUTF8(string(raw)))
}

func validUTF8(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

func mustJSON(v any) []byte {
	b, err := go_json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	s = validUTF8(s)
	return &s
}

func orUnknown(s string) string {
	if s == "" {
		return domainwebhook.UnknownValue
	}
	return validUTF8(s)
}
