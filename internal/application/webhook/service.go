// Package webhook orquesta la ingesta de webhooks de Bling: transporte, firma, parseo,
// idempotencia, enrutado, persistencia y auditoría de cada intento.
package webhook

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/logger"
)

// Cabeceras del contrato de Bling.
const (
	HeaderContentType  = "Content-Type"
	HeaderSignature    = "X-Bling-Signature-256"
	HeaderRetryAttempt = "X-Bling-Retry-Attempt"
	HeaderUserAgent    = "User-Agent"
)

const internalErrorMessage = "Internal processing error"

// Request entrada de ProcessWebhook. RawBody son los bytes exactos recibidos.
type Request struct {
	RawBody      []byte
	Headers      map[string]string
	SourceIP     string
	RetryAttempt int
}

func (r Request) header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// ProcessingResult respuesta definitiva del pipeline (200 o 400).
type ProcessingResult struct {
	Success          bool
	StatusCode       int
	ProcessingTimeMs int64
	ResourceID       string
	ErrorMessage     string
	Replayed         bool
}

// ResponseBody cuerpo JSON que se devuelve al emisor y se guarda en el log.
type ResponseBody struct {
	Success    bool   `json:"success"`
	ResourceID string `json:"resourceId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Body devuelve el cuerpo de respuesta del resultado.
func (r ProcessingResult) Body() ResponseBody {
	if r.Success {
		return successBody(r.ResourceID)
	}
	return errorBody(r.ErrorMessage)
}

func successBody(resourceID string) ResponseBody {
	return ResponseBody{Success: true, ResourceID: resourceID}
}

func errorBody(msg string) ResponseBody {
	return ResponseBody{Success: false, Error: msg}
}

// ParseRetryAttempt interpreta la cabecera de reintento. Vacía, no numérica o negativa = 0.
func ParseRetryAttempt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Service es el WebhookIngestionService.
type Service struct {
	cfg    Config
	parser *domainwebhook.Parser
	guard  *IdempotencyGuard
	router *Router
	audit  *AuditLogger
	tx     TxRunner
	log    *logger.Logger
	now    func() time.Time
}

// NewService construye el pipeline completo. logRepo se usa para registrar intentos
// fallidos fuera de transacción; cache puede ser nil.
func NewService(cfg Config, tx TxRunner, logRepo repository.WebhookLogRepository, cache ReplayCache, log *logger.Logger) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		cfg:    cfg,
		parser: domainwebhook.NewParser(),
		guard:  NewIdempotencyGuard(cache, log),
		router: NewRouter(NewInvoiceUpsertHandler(cfg.Location, log), NewInvoiceDeleteHandler(log)),
		audit:  NewAuditLogger(logRepo, log),
		tx:     tx,
		log:    log,
		now:    time.Now,
	}
}

type outcome struct {
	resourceID string
	elapsedMs  int64
	replayed   bool
}

// ProcessWebhook procesa un intento de entrega. Nunca devuelve error: cualquier fallo se
// convierte en un ProcessingResult 400 y queda registrado en el log de webhooks.
func (s *Service) ProcessWebhook(ctx context.Context, req Request) ProcessingResult {
	start := s.now()
	if req.RetryAttempt < 0 {
		req.RetryAttempt = 0
	}
	att := &attempt{req: req, bodyLimit: s.cfg.MaxBodyBytes}
	if !att.oversized() {
		att.eventID, att.eventType = domainwebhook.Peek(req.RawBody)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	out, err := s.run(ctx, att, start)
	if err != nil {
		res, detail := failureResult(err)
		res.ProcessingTimeMs = s.elapsedMs(start)
		s.log.Warn().
			Str("event_id", att.eventID).
			Str("event_type", att.eventType).
			Int("retry_attempt", req.RetryAttempt).
			Bool("signature_valid", att.signatureValid).
			Str("error", res.ErrorMessage).
			Msg("webhook rechazado")
		s.audit.RecordFailure(ctx, att, res, detail)
		return res
	}

	if out.elapsedMs == 0 {
		out.elapsedMs = s.elapsedMs(start)
	}
	s.log.Info().
		Str("event_id", att.eventID).
		Str("event_type", att.eventType).
		Int("retry_attempt", req.RetryAttempt).
		Str("resource_id", out.resourceID).
		Int64("duration_ms", out.elapsedMs).
		Bool("replayed", out.replayed).
		Msg("webhook procesado")
	return ProcessingResult{
		Success:          true,
		StatusCode:       200,
		ProcessingTimeMs: out.elapsedMs,
		ResourceID:       out.resourceID,
		Replayed:         out.replayed,
	}
}

func (s *Service) run(ctx context.Context, att *attempt, start time.Time) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	req := att.req

	// ═══════════════════════════════════════════════════════════════════════════
	// 1. Transporte: tamaño, Content-Type y presencia de firma
	// ═══════════════════════════════════════════════════════════════════════════
	if att.oversized() {
		return out, domainwebhook.PayloadTooLargeError(len(req.RawBody), att.bodyLimit)
	}
	signature := req.header(HeaderSignature)
	if err := domainwebhook.CheckTransport(req.header(HeaderContentType), signature); err != nil {
		return out, err
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 2. Firma HMAC sobre el cuerpo crudo
	// ═══════════════════════════════════════════════════════════════════════════
	att.signatureValid = domainwebhook.ValidateSignature(req.RawBody, signature, s.cfg.ClientSecret)
	if !att.signatureValid {
		return out, domainwebhook.InvalidSignatureError()
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 3. Parseo estructural
	// ═══════════════════════════════════════════════════════════════════════════
	evt, err := s.parser.Parse(req.RawBody)
	if err != nil {
		return out, err
	}
	att.eventID, att.eventType = evt.EventID, evt.EventType
	if req.RetryAttempt > s.cfg.MaxRetries {
		s.log.Warn().Str("event_id", evt.EventID).Int("retry_attempt", req.RetryAttempt).
			Int("max_retries", s.cfg.MaxRetries).Msg("reintento por encima del máximo configurado")
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 4. Idempotencia (caché) y enrutado
	// ═══════════════════════════════════════════════════════════════════════════
	if d := s.guard.CheckCache(ctx, evt.EventID, req.RetryAttempt); d.Replay {
		return outcome{resourceID: d.ResourceID, replayed: true}, nil
	}
	handle, err := s.router.Route(evt)
	if err != nil {
		return out, err
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 5. Transacción: lock por (eventId, retryAttempt) → idempotencia → negocio → log
	// ═══════════════════════════════════════════════════════════════════════════
	lockKey := fmt.Sprintf("%s:%d", evt.EventID, req.RetryAttempt)
	err = s.tx.RunWebhook(ctx, lockKey, func(invoiceRepo repository.InvoiceRepository, logRepo repository.WebhookLogRepository) error {
		d, err := s.guard.Check(ctx, logRepo, evt.EventID, req.RetryAttempt)
		if err != nil {
			return domainwebhook.StorageError("idempotency check", err)
		}
		if d.Replay {
			out = outcome{resourceID: d.ResourceID, replayed: true}
			return nil
		}
		resourceID, err := handle(ctx, invoiceRepo)
		if err != nil {
			return err
		}
		out = outcome{resourceID: resourceID, elapsedMs: s.elapsedMs(start)}
		s.audit.RecordSuccess(ctx, logRepo, att, resourceID, out.elapsedMs)
		return nil
	})
	if err != nil {
		if domainwebhook.AsError(err) == nil {
			err = domainwebhook.StorageError("transaction", err)
		}
		return outcome{}, err
	}
	s.guard.Remember(ctx, evt.EventID, req.RetryAttempt, out.resourceID)
	return out, nil
}

func (s *Service) elapsedMs(start time.Time) int64 {
	ms := s.now().Sub(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// failureResult traduce el error a un resultado 400 y devuelve el detalle para error_detail.
func failureResult(err error) (ProcessingResult, string) {
	res := ProcessingResult{Success: false, StatusCode: 400}
	werr := domainwebhook.AsError(err)
	if werr == nil {
		res.ErrorMessage = internalErrorMessage
		return res, err.Error()
	}
	switch werr.Kind {
	case domainwebhook.KindStorage:
		res.ErrorMessage = internalErrorMessage
		return res, werr.Error()
	default:
		res.ErrorMessage = werr.Message
		return res, werr.Detail()
	}
}
