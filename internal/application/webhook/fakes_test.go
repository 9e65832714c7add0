package webhook_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	appwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore: almacenamiento en memoria con semántica de transacción serializada.
// Los repos "tx" asumen el mutex tomado; lockedLogRepo lo toma por su cuenta.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice // por external_id
	logs     []*entity.WebhookLogEntry
	seq      int
	clock    time.Time

	failLogAppend  bool
	failUpsertOnce bool
	panicOnUpsert  bool
	upserts        int
	txRuns         int
}

func newMemStore() *memStore {
	return &memStore{
		invoices: make(map[string]*entity.Invoice),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%04d", prefix, s.seq)
}

type snapshot struct {
	invoices map[string]entity.Invoice
	logs     int
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{invoices: make(map[string]entity.Invoice, len(s.invoices)), logs: len(s.logs)}
	for k, v := range s.invoices {
		snap.invoices[k] = *v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.invoices = make(map[string]*entity.Invoice, len(snap.invoices))
	for k, v := range snap.invoices {
		inv := v
		s.invoices[k] = &inv
	}
	s.logs = s.logs[:snap.logs]
}

// Accesores para asserts (toman el mutex).

func (s *memStore) invoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

func (s *memStore) invoice(externalID string) *entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[externalID]
	if !ok {
		return nil
	}
	cp := *inv
	return &cp
}

func (s *memStore) logEntries() []*entity.WebhookLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.WebhookLogEntry(nil), s.logs...)
}

func (s *memStore) successLogs(eventID string) int {
	n := 0
	for _, e := range s.logEntries() {
		if e.EventID == eventID && e.Succeeded() {
			n++
		}
	}
	return n
}

// ──── memTxRunner ────

type memTxRunner struct {
	s *memStore
}

func (r memTxRunner) RunWebhook(ctx context.Context, lockKey string, fn func(repository.InvoiceRepository, repository.WebhookLogRepository) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.txRuns++
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	snap := r.s.snapshot()
	if err := fn(memInvoiceRepo{r.s}, memLogRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// blockingTxRunner espera a que expire el contexto.
type blockingTxRunner struct{}

func (blockingTxRunner) RunWebhook(ctx context.Context, _ string, _ func(repository.InvoiceRepository, repository.WebhookLogRepository) error) error {
	<-ctx.Done()
	return fmt.Errorf("begin transaction: %w", ctx.Err())
}

// ──── memInvoiceRepo ────

type memInvoiceRepo struct{ s *memStore }

var _ repository.InvoiceRepository = memInvoiceRepo{}

func (r memInvoiceRepo) Upsert(_ context.Context, inv *entity.Invoice) (string, error) {
	s := r.s
	s.upserts++
	if s.panicOnUpsert {
		panic("upsert explotó")
	}
	if s.failUpsertOnce {
		s.failUpsertOnce = false
		return "", errors.New("connection reset by peer")
	}
	now := s.tick()
	if prev, ok := s.invoices[inv.ExternalID]; ok {
		cp := *inv
		cp.ID = prev.ID
		cp.CreatedAt = prev.CreatedAt
		cp.UpdatedAt = now
		s.invoices[inv.ExternalID] = &cp
		return cp.ID, nil
	}
	cp := *inv
	cp.ID = s.nextID("inv")
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.invoices[inv.ExternalID] = &cp
	return cp.ID, nil
}

func (r memInvoiceRepo) DeleteByExternalID(_ context.Context, externalID string) (string, bool, error) {
	inv, ok := r.s.invoices[externalID]
	if !ok {
		return "", false, nil
	}
	delete(r.s.invoices, externalID)
	return inv.ID, true, nil
}

func (r memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	for _, inv := range r.s.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, nil
}

func (r memInvoiceRepo) GetByExternalID(_ context.Context, externalID string) (*entity.Invoice, error) {
	return r.s.invoices[externalID], nil
}

func (r memInvoiceRepo) List(_ context.Context, _ repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	out := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r memInvoiceRepo) Stats(context.Context, *time.Time, *time.Time) ([]repository.InvoiceStatsRow, error) {
	return nil, nil
}

// ──── memLogRepo ────

type memLogRepo struct{ s *memStore }

var _ repository.WebhookLogRepository = memLogRepo{}

func (r memLogRepo) Append(_ context.Context, e *entity.WebhookLogEntry) error {
	if r.s.failLogAppend {
		return errors.New("webhook_logs: disk full")
	}
	cp := *e
	cp.ID = r.s.nextID("log")
	r.s.logs = append(r.s.logs, &cp)
	return nil
}

func (r memLogRepo) FindLatestAttempt(_ context.Context, eventID string, retryAttempt int) (*entity.WebhookLogEntry, error) {
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		e := r.s.logs[i]
		if e.EventID == eventID && e.RetryAttempt == retryAttempt {
			return e, nil
		}
	}
	return nil, nil
}

func (r memLogRepo) GetByID(_ context.Context, id string) (*entity.WebhookLogEntry, error) {
	for _, e := range r.s.logs {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r memLogRepo) List(context.Context, repository.WebhookLogFilter) ([]*entity.WebhookLogEntry, int, error) {
	return r.s.logs, len(r.s.logs), nil
}

// lockedLogRepo es el repo "pool" usado fuera de transacción.
type lockedLogRepo struct{ s *memStore }

func (r lockedLogRepo) Append(ctx context.Context, e *entity.WebhookLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return memLogRepo(r).Append(ctx, e)
}

func (r lockedLogRepo) FindLatestAttempt(ctx context.Context, eventID string, retryAttempt int) (*entity.WebhookLogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLogRepo(r).FindLatestAttempt(ctx, eventID, retryAttempt)
}

func (r lockedLogRepo) GetByID(ctx context.Context, id string) (*entity.WebhookLogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLogRepo(r).GetByID(ctx, id)
}

func (r lockedLogRepo) List(ctx context.Context, f repository.WebhookLogFilter) ([]*entity.WebhookLogEntry, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLogRepo(r).List(ctx, f)
}

// ──── mockReplayCache ────

type mockReplayCache struct {
	mock.Mock
}

var _ appwebhook.ReplayCache = (*mockReplayCache)(nil)

func (m *mockReplayCache) Get(ctx context.Context, eventID string, retryAttempt int) (string, bool, error) {
	args := m.Called(ctx, eventID, retryAttempt)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockReplayCache) Put(ctx context.Context, eventID string, retryAttempt int, resourceID string) error {
	args := m.Called(ctx, eventID, retryAttempt, resourceID)
	return args.Error(0)
}
