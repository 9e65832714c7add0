package webhook_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	appwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "bling-client-secret"

func newService(t *testing.T, store *memStore, cache appwebhook.ReplayCache) *appwebhook.Service {
	t.Helper()
	cfg := appwebhook.Config{
		ClientSecret: testSecret,
		MaxRetries:   3,
		Timeout:      2 * time.Second,
		Location:     domainwebhook.LoadLocation("America/Sao_Paulo"),
	}
	return appwebhook.NewService(cfg, memTxRunner{store}, lockedLogRepo{store}, cache, logger.Nop())
}

func invoiceEvent(eventID, eventType, externalID string, situacao int) []byte {
	return []byte(fmt.Sprintf(`{"eventId":%q,"date":"2025-01-10T10:00:00Z","version":"v1","event":%q,"companyId":"1",`+
		`"data":{"id":%s,"tipo":1,"situacao":%d,"numero":"000123","dataEmissao":"2025-01-10 09:30:00",`+
		`"dataOperacao":"2025-01-10 09:31:00","contato":{"id":555},"loja":{"id":0},"valorNota":"1500.75"}}`,
		eventID, eventType, externalID, situacao))
}

func deletedEvent(eventID, externalID string) []byte {
	return []byte(fmt.Sprintf(`{"eventId":%q,"event":"invoice.deleted","data":{"id":%s}}`, eventID, externalID))
}

func signedRequest(body []byte, secret string, retry int) appwebhook.Request {
	return appwebhook.Request{
		RawBody: body,
		Headers: map[string]string{
			"Content-Type":          "application/json",
			"X-Bling-Signature-256": domainwebhook.Sign(body, secret),
			"User-Agent":            "Bling-Webhook/1.0",
			"Authorization":         "Bearer no-debe-guardarse",
		},
		SourceIP:     "200.1.2.3",
		RetryAttempt: retry,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios principales
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessWebhook_Scenarios(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)
	ctx := context.Background()

	// 1. invoice.created con firma válida
	created := signedRequest(invoiceEvent("evt-1", "invoice.created", "12345", 1), testSecret, 0)
	res := svc.ProcessWebhook(ctx, created)
	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, 200, res.StatusCode)
	assert.NotEmpty(t, res.ResourceID)
	assert.GreaterOrEqual(t, res.ProcessingTimeMs, int64(0))
	firstID := res.ResourceID

	inv := store.invoice("12345")
	require.NotNil(t, inv, "la invoice debe existir")
	assert.Equal(t, firstID, inv.ID)
	assert.Equal(t, entity.InvoiceKindOutbound, inv.Kind)
	assert.Equal(t, 1, inv.Status)
	assert.Equal(t, "1500.75", inv.TotalValue.String())
	assert.Equal(t, created.RawBody, inv.RawPayload, "el payload original se conserva textual")
	require.NotNil(t, inv.ContactID)
	assert.Equal(t, "555", *inv.ContactID)
	assert.Nil(t, inv.OperationNatureID)

	logs := store.logEntries()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.WebhookLogSuccess, logs[0].Status)
	assert.True(t, logs[0].SignatureValid)
	require.NotNil(t, logs[0].ResourceID)
	assert.Equal(t, firstID, *logs[0].ResourceID)

	// 2. reentrega exacta: mismo resourceId, sin efectos nuevos
	res = svc.ProcessWebhook(ctx, created)
	require.True(t, res.Success)
	assert.True(t, res.Replayed)
	assert.Equal(t, firstID, res.ResourceID)
	assert.Equal(t, 1, store.invoiceCount())
	assert.Equal(t, 1, store.successLogs("evt-1"), "el replay no se vuelve a registrar")
	assert.Equal(t, 1, store.upserts, "el replay no vuelve a ejecutar el upsert")

	// 3. invoice.updated cambia situacao 1 → 2 sobre la misma fila
	before := store.invoice("12345")
	res = svc.ProcessWebhook(ctx, signedRequest(invoiceEvent("evt-2", "invoice.updated", "12345", 2), testSecret, 0))
	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, firstID, res.ResourceID)
	after := store.invoice("12345")
	assert.Equal(t, 2, after.Status)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updated_at debe avanzar")
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, 1, store.invoiceCount())

	// 4. invoice.deleted elimina la fila
	res = svc.ProcessWebhook(ctx, signedRequest(deletedEvent("evt-3", "12345"), testSecret, 0))
	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, "12345", res.ResourceID)
	assert.Equal(t, 0, store.invoiceCount())

	// 5. firma adulterada
	tampered := signedRequest(invoiceEvent("evt-4", "invoice.created", "999", 1), testSecret, 0)
	tampered.Headers["X-Bling-Signature-256"] = "sha256=" + string(bytes.Repeat([]byte("0"), 64))
	res = svc.ProcessWebhook(ctx, tampered)
	assert.False(t, res.Success)
	assert.Equal(t, 400, res.StatusCode)
	assert.Equal(t, "Invalid HMAC signature", res.ErrorMessage)
	logs = store.logEntries()
	last := logs[len(logs)-1]
	assert.Equal(t, entity.WebhookLogError, last.Status)
	assert.False(t, last.SignatureValid)
	assert.Equal(t, "evt-4", last.EventID, "el eventId se registra aunque falle la firma")
	assert.Equal(t, 0, store.invoiceCount())

	// 6. tipo no soportado
	res = svc.ProcessWebhook(ctx, signedRequest([]byte(`{"eventId":"evt-5","event":"foo.bar","data":{}}`), testSecret, 0))
	assert.False(t, res.Success)
	assert.Equal(t, "Unsupported event type: foo.bar", res.ErrorMessage)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessWebhook_WrongSecretAlwaysRejected(t *testing.T) {
	bodies := [][]byte{
		invoiceEvent("a", "invoice.created", "1", 1),
		invoiceEvent("b", "consumer_invoice.updated", `"2"`, 5),
		deletedEvent("c", "3"),
		[]byte(`{"eventId":"d","event":"foo.bar","data":{}}`),
	}
	for _, body := range bodies {
		store := newMemStore()
		svc := newService(t, store, nil)

		res := svc.ProcessWebhook(context.Background(), signedRequest(body, "secreto-equivocado", 0))
		assert.False(t, res.Success)
		assert.Equal(t, 400, res.StatusCode)
		assert.Equal(t, "Invalid HMAC signature", res.ErrorMessage)

		logs := store.logEntries()
		require.Len(t, logs, 1)
		assert.False(t, logs[0].SignatureValid)
		assert.Equal(t, 0, store.txRuns, "sin firma válida no se abre transacción")
	}
}

func TestProcessWebhook_DeleteNonExistent(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)

	res := svc.ProcessWebhook(context.Background(), signedRequest(deletedEvent("evt-del", "777"), testSecret, 0))
	require.True(t, res.Success)
	assert.Equal(t, "777", res.ResourceID)
	assert.Equal(t, 0, store.invoiceCount())
	require.Len(t, store.logEntries(), 1)
}

func TestProcessWebhook_MalformedJSON(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)

	res := svc.ProcessWebhook(context.Background(), signedRequest([]byte(`{"eventId": "x", `), testSecret, 0))
	assert.False(t, res.Success)
	assert.Equal(t, 400, res.StatusCode)
	assert.Contains(t, res.ErrorMessage, "Malformed JSON payload")
	assert.GreaterOrEqual(t, res.ProcessingTimeMs, int64(0))

	logs := store.logEntries()
	require.Len(t, logs, 1, "exactamente un registro por intento")
	assert.Equal(t, domainwebhook.UnknownValue, logs[0].EventID)
	assert.True(t, logs[0].SignatureValid, "la firma era válida aunque el JSON no")
	assert.Equal(t, `"{\"eventId\": \"x\", "`, string(logs[0].RequestBody), "cuerpo no JSON se guarda como string")
	require.NotNil(t, logs[0].ErrorDetail)
}

func TestProcessWebhook_InvalidUTF8StillLogged(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)

	body := []byte("{\"eventId\":\"evt-utf8\",\"event\":\"invoice.created\",\"data\":{\"id\":1,\"tipo\":0,\"numero\":\"\xff\xfe\"}}")
	req := signedRequest(body, testSecret, 0)
	req.Headers["X-Extra"] = "valor-\xff"
	res := svc.ProcessWebhook(context.Background(), req)

	assert.False(t, res.Success)
	assert.Equal(t, 400, res.StatusCode)
	assert.Contains(t, res.ErrorMessage, "Malformed JSON payload")
	assert.Equal(t, 0, store.upserts, "no debe llegar al repositorio de facturas")

	logs := store.logEntries()
	require.Len(t, logs, 1, "exactamente un registro por intento")
	assert.Equal(t, "evt-utf8", logs[0].EventID)
	assert.True(t, utf8.Valid(logs[0].RequestBody), "request_body debe ser UTF-8 válido")
	assert.True(t, bytes.HasPrefix(logs[0].RequestBody, []byte(`"`)), "se guarda como string JSON")
	assert.True(t, utf8.ValidString(logs[0].RequestHeaders["X-Extra"]))
}

func TestProcessWebhook_PayloadTooLarge(t *testing.T) {
	store := newMemStore()
	cfg := appwebhook.Config{ClientSecret: testSecret, MaxBodyBytes: 64}
	svc := appwebhook.NewService(cfg, memTxRunner{store}, lockedLogRepo{store}, nil, logger.Nop())

	body := invoiceEvent("evt-big", "invoice.created", "777", 1)
	require.Greater(t, len(body), 64)
	res := svc.ProcessWebhook(context.Background(), signedRequest(body, testSecret, 0))

	assert.False(t, res.Success)
	assert.Equal(t, 400, res.StatusCode)
	assert.Contains(t, res.ErrorMessage, "Payload too large")
	assert.Equal(t, 0, store.txRuns, "se rechaza antes de abrir transacción")

	logs := store.logEntries()
	require.Len(t, logs, 1, "exactamente un registro por intento")
	assert.Equal(t, domainwebhook.UnknownValue, logs[0].EventID)
	assert.False(t, logs[0].SignatureValid, "la firma no llega a verificarse")
	var stored string
	require.NoError(t, json.Unmarshal(logs[0].RequestBody, &stored))
	assert.Equal(t, string(body[:64]), stored, "request_body guarda el prefijo hasta el límite")
}

func TestProcessWebhook_TransportErrors(t *testing.T) {
	body := invoiceEvent("evt-t", "invoice.created", "1", 1)

	t.Run("content type", func(t *testing.T) {
		store := newMemStore()
		req := signedRequest(body, testSecret, 0)
		req.Headers["Content-Type"] = "text/plain"
		res := newService(t, store, nil).ProcessWebhook(context.Background(), req)
		assert.False(t, res.Success)
		assert.Contains(t, res.ErrorMessage, "Content-Type must be application/json")
		logs := store.logEntries()
		require.Len(t, logs, 1)
		assert.False(t, logs[0].SignatureValid)
		assert.Equal(t, "evt-t", logs[0].EventID)
	})

	t.Run("sin firma", func(t *testing.T) {
		store := newMemStore()
		req := signedRequest(body, testSecret, 0)
		delete(req.Headers, "X-Bling-Signature-256")
		res := newService(t, store, nil).ProcessWebhook(context.Background(), req)
		assert.Equal(t, "Missing signature header", res.ErrorMessage)
		require.Len(t, store.logEntries(), 1)
		assert.Nil(t, store.logEntries()[0].Signature)
	})

	t.Run("cabeceras en minúsculas", func(t *testing.T) {
		store := newMemStore()
		req := appwebhook.Request{
			RawBody: body,
			Headers: map[string]string{
				"content-type":          "application/json; charset=utf-8",
				"x-bling-signature-256": domainwebhook.Sign(body, testSecret),
			},
		}
		res := newService(t, store, nil).ProcessWebhook(context.Background(), req)
		assert.True(t, res.Success, res.ErrorMessage)
	})
}

func TestProcessWebhook_InvalidDate(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)
	body := []byte(`{"eventId":"evt-d","event":"invoice.created","data":{"id":1,"tipo":0,"dataEmissao":"31/12/2024","dataOperacao":"2025-01-01"}}`)

	res := svc.ProcessWebhook(context.Background(), signedRequest(body, testSecret, 0))
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "Invalid date in field dataEmissao")
	assert.Equal(t, 0, store.invoiceCount())
	require.Len(t, store.logEntries(), 1)
}

func TestProcessWebhook_ErrorThenRetrySucceeds(t *testing.T) {
	store := newMemStore()
	store.failUpsertOnce = true
	svc := newService(t, store, nil)
	req := signedRequest(invoiceEvent("evt-r", "invoice.created", "55", 1), testSecret, 0)

	res := svc.ProcessWebhook(context.Background(), req)
	assert.False(t, res.Success)
	assert.Equal(t, "Internal processing error", res.ErrorMessage, "no se filtran detalles de almacenamiento")
	logs := store.logEntries()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].ErrorDetail)
	assert.Contains(t, *logs[0].ErrorDetail, "connection reset by peer")

	// un registro de error no bloquea: el mismo par se procesa normalmente
	res = svc.ProcessWebhook(context.Background(), req)
	require.True(t, res.Success, res.ErrorMessage)
	assert.False(t, res.Replayed)
	assert.Equal(t, 1, store.invoiceCount())
	assert.Equal(t, 1, store.successLogs("evt-r"))
}

func TestProcessWebhook_NextRetryAttemptIsProcessedAgain(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)
	body := invoiceEvent("evt-n", "invoice.created", "66", 1)

	first := svc.ProcessWebhook(context.Background(), signedRequest(body, testSecret, 0))
	require.True(t, first.Success)
	second := svc.ProcessWebhook(context.Background(), signedRequest(body, testSecret, 1))
	require.True(t, second.Success)
	assert.False(t, second.Replayed, "otro retryAttempt es otro intento lógico")
	assert.Equal(t, first.ResourceID, second.ResourceID)
	assert.Equal(t, 1, store.invoiceCount())
	assert.Equal(t, 2, store.successLogs("evt-n"))
}

func TestProcessWebhook_LoggingFailureIsNonFatal(t *testing.T) {
	store := newMemStore()
	store.failLogAppend = true
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Level: "error"}, &buf)
	svc := appwebhook.NewService(appwebhook.Config{ClientSecret: testSecret}, memTxRunner{store}, lockedLogRepo{store}, nil, log)

	res := svc.ProcessWebhook(context.Background(), signedRequest(invoiceEvent("evt-l", "invoice.created", "8", 1), testSecret, 0))
	require.True(t, res.Success, "un fallo del log no cambia el resultado")
	assert.Equal(t, 1, store.invoiceCount(), "el efecto de negocio se confirma")
	assert.Empty(t, store.logEntries())
	assert.Contains(t, buf.String(), "no se pudo escribir el log de webhook")
	assert.Contains(t, buf.String(), "evt-l")

	// también en la ruta de error
	buf.Reset()
	res = svc.ProcessWebhook(context.Background(), signedRequest(invoiceEvent("evt-l2", "invoice.created", "8", 1), "x", 0))
	assert.Equal(t, "Invalid HMAC signature", res.ErrorMessage)
	assert.Contains(t, buf.String(), "no se pudo escribir el log de webhook")
}

func TestProcessWebhook_PanicBecomesGenericError(t *testing.T) {
	store := newMemStore()
	store.panicOnUpsert = true
	svc := newService(t, store, nil)

	res := svc.ProcessWebhook(context.Background(), signedRequest(invoiceEvent("evt-p", "invoice.created", "9", 1), testSecret, 0))
	assert.False(t, res.Success)
	assert.Equal(t, 400, res.StatusCode)
	assert.Equal(t, "Internal processing error", res.ErrorMessage)
	logs := store.logEntries()
	require.Len(t, logs, 1)
	assert.Contains(t, *logs[0].ErrorDetail, "upsert explotó")
}

func TestProcessWebhook_TimeoutStillLogged(t *testing.T) {
	store := newMemStore()
	cfg := appwebhook.Config{ClientSecret: testSecret, Timeout: 20 * time.Millisecond}
	svc := appwebhook.NewService(cfg, blockingTxRunner{}, lockedLogRepo{store}, nil, logger.Nop())

	res := svc.ProcessWebhook(context.Background(), signedRequest(invoiceEvent("evt-to", "invoice.created", "10", 1), testSecret, 0))
	assert.False(t, res.Success)
	assert.Equal(t, "Internal processing error", res.ErrorMessage)
	logs := store.logEntries()
	require.Len(t, logs, 1, "el registro se escribe aunque el contexto haya expirado")
	assert.Contains(t, *logs[0].ErrorDetail, context.DeadlineExceeded.Error())
}

func TestProcessWebhook_StoredRequestMetadata(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)
	req := signedRequest(invoiceEvent("evt-m", "invoice.created", "11", 1), testSecret, -4)

	res := svc.ProcessWebhook(context.Background(), req)
	require.True(t, res.Success)
	e := store.logEntries()[0]
	assert.Equal(t, 0, e.RetryAttempt, "reintento negativo se normaliza a 0")
	assert.Equal(t, "[REDACTED]", e.RequestHeaders["Authorization"])
	assert.Equal(t, "Bling-Webhook/1.0", *e.UserAgent)
	assert.Equal(t, "200.1.2.3", *e.SourceIP)
	assert.Equal(t, req.Headers["X-Bling-Signature-256"], *e.Signature)
	assert.Equal(t, "invoice.created", e.EventType)
	assert.JSONEq(t, `{"success":true,"resourceId":"`+res.ResourceID+`"}`, string(e.ResponseBody))
	assert.Equal(t, req.RawBody, e.RequestBody)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessWebhook_ConcurrentIdenticalRedeliveries(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)
	req := signedRequest(invoiceEvent("evt-c", "invoice.created", "4242", 1), testSecret, 0)

	const n = 16
	results := make([]appwebhook.ProcessingResult, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			results[i] = svc.ProcessWebhook(context.Background(), req)
			if !results[i].Success {
				return errors.New(results[i].ErrorMessage)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, r := range results {
		assert.Equal(t, results[0].ResourceID, r.ResourceID)
	}
	assert.Equal(t, 1, store.invoiceCount())
	assert.Equal(t, 1, store.successLogs("evt-c"), "un solo éxito registrado por (eventId, retryAttempt)")
	assert.Equal(t, 1, store.upserts)
}

func TestProcessWebhook_ConcurrentCreateAndUpdateConverge(t *testing.T) {
	store := newMemStore()
	svc := newService(t, store, nil)

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		eventType := "invoice.updated"
		if i%2 == 0 {
			eventType = "invoice.created"
		}
		req := signedRequest(invoiceEvent(fmt.Sprintf("evt-cc-%d", i), eventType, "5000", i), testSecret, 0)
		g.Go(func() error {
			if res := svc.ProcessWebhook(context.Background(), req); !res.Success {
				return errors.New(res.ErrorMessage)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, store.invoiceCount(), "nunca dos filas para el mismo external_id")
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay cache
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessWebhook_ReplayCacheHit(t *testing.T) {
	store := newMemStore()
	cache := new(mockReplayCache)
	cache.On("Get", mock.Anything, "evt-k", 0).Return("inv-cached", true, nil).Once()
	svc := newService(t, store, cache)

	res := svc.ProcessWebhook(context.Background(), signedRequest(invoiceEvent("evt-k", "invoice.created", "1", 1), testSecret, 0))
	require.True(t, res.Success)
	assert.True(t, res.Replayed)
	assert.Equal(t, "inv-cached", res.ResourceID)
	assert.Equal(t, 0, store.txRuns, "un hit de caché no abre transacción")
	assert.Empty(t, store.logEntries())
	cache.AssertExpectations(t)
}

func TestProcessWebhook_ReplayCacheMissStoresResult(t *testing.T) {
	store := newMemStore()
	cache := new(mockReplayCache)
	cache.On("Get", mock.Anything, "evt-k2", 0).Return("", false, nil).Once()
	cache.On("Put", mock.Anything, "evt-k2", 0, mock.AnythingOfType("string")).Return(nil).Once()
	svc := newService(t, store, cache)

	res := svc.ProcessWebhook(context.Background(), signedRequest(invoiceEvent("evt-k2", "invoice.created", "2", 1), testSecret, 0))
	require.True(t, res.Success)
	cache.AssertCalled(t, "Put", mock.Anything, "evt-k2", 0, res.ResourceID)
	cache.AssertExpectations(t)
}

func TestProcessWebhook_ReplayCacheErrorsFallBackToLog(t *testing.T) {
	store := newMemStore()
	cache := new(mockReplayCache)
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return("", false, errors.New("redis down"))
	cache.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	svc := newService(t, store, cache)
	req := signedRequest(invoiceEvent("evt-k3", "invoice.created", "3", 1), testSecret, 0)

	first := svc.ProcessWebhook(context.Background(), req)
	require.True(t, first.Success)
	second := svc.ProcessWebhook(context.Background(), req)
	require.True(t, second.Success)
	assert.True(t, second.Replayed, "el log resuelve la idempotencia sin caché")
	assert.Equal(t, first.ResourceID, second.ResourceID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Utilidades exportadas
// ──────────────────────────────────────────────────────────────────────────────

func TestParseRetryAttempt(t *testing.T) {
	assert.Equal(t, 0, appwebhook.ParseRetryAttempt(""))
	assert.Equal(t, 0, appwebhook.ParseRetryAttempt("abc"))
	assert.Equal(t, 0, appwebhook.ParseRetryAttempt("-2"))
	assert.Equal(t, 3, appwebhook.ParseRetryAttempt(" 3 "))
}

func TestProcessingResult_Body(t *testing.T) {
	ok := appwebhook.ProcessingResult{Success: true, ResourceID: "r"}
	assert.Equal(t, appwebhook.ResponseBody{Success: true, ResourceID: "r"}, ok.Body())
	ko := appwebhook.ProcessingResult{ErrorMessage: "boom"}
	assert.Equal(t, appwebhook.ResponseBody{Success: false, Error: "boom"}, ko.Body())
}
