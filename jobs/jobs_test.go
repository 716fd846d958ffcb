package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/invoice"
	jobmetrics "github.com/sitelog/intake/internal/jobs"
	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) (*RenderStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRenderStore(client, time.Minute), mr
}

type stubWarmer struct {
	calls int
	err   error
}

func (s *stubWarmer) Warm(context.Context) error {
	s.calls++
	return s.err
}

func TestDashboardWarmupJob(t *testing.T) {
	warmer := &stubWarmer{}
	job := NewDashboardWarmupJob(warmer, discardLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewDashboardWarmupTask("entry created")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, warmer.calls)

	warmer.err = errors.New("redis down")
	assert.ErrorIs(t, job.Handle(context.Background(), task), warmer.err)

	bad := asynq.NewTask(TaskDashboardWarmup, []byte("{"))
	assert.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)
}

type stubInvoices struct {
	criteria intake.Criteria
	now      time.Time
	err      error
}

func (s *stubInvoices) PDF(_ context.Context, criteria intake.Criteria, now time.Time) (invoice.Document, []byte, error) {
	s.criteria = criteria
	s.now = now
	if s.err != nil {
		return invoice.Document{}, nil, s.err
	}
	return invoice.Document{Header: invoice.Header{ReportNumber: "RPT-000001"}}, []byte("%PDF"), nil
}

func TestInvoiceRenderJobStoresPDF(t *testing.T) {
	store, mr := newStore(t)
	invoices := &stubInvoices{}
	job := NewInvoiceRenderJob(invoices, store, discardLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	requested := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	task, err := NewInvoiceRenderTask(InvoiceRenderPayload{Key: "k1", Criteria: intake.Criteria{ProjectID: "p1"}, RequestedAt: requested})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.Equal(t, "p1", invoices.criteria.ProjectID)
	assert.True(t, requested.Equal(invoices.now))
	assert.True(t, mr.Exists("invoice:pdf:k1"))

	number, data, err := store.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "RPT-000001", number)
	assert.Equal(t, "%PDF", string(data))
}

func TestInvoiceRenderJobSkipsRetryOnEmptySelection(t *testing.T) {
	store, _ := newStore(t)
	job := NewInvoiceRenderJob(&stubInvoices{err: invoice.ErrNoMatches}, store, discardLogger(), nil)

	task, err := NewInvoiceRenderTask(InvoiceRenderPayload{Key: "k2"})
	require.NoError(t, err)
	err = job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	_, _, err = store.Get(context.Background(), "k2")
	assert.ErrorIs(t, err, ErrRenderPending)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestInvoiceRenderJobRejectsMissingKey(t *testing.T) {
	store, _ := newStore(t)
	job := NewInvoiceRenderJob(&stubInvoices{}, store, discardLogger(), nil)
	task, err := NewInvoiceRenderTask(InvoiceRenderPayload{})
	require.NoError(t, err)
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}

type stubEnqueuer struct {
	payload InvoiceRenderPayload
}

func (s *stubEnqueuer) EnqueueInvoiceRender(_ context.Context, payload InvoiceRenderPayload) (string, error) {
	s.payload = payload
	return "k9", nil
}

func signedIn(r *http.Request, role string) *http.Request {
	sess := &shared.Session{}
	sess.SignIn("u1", role)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestHandlerInvoiceFlow(t *testing.T) {
	store, _ := newStore(t)
	enqueuer := &stubEnqueuer{}
	h := NewHandler(nil, enqueuer, store, discardLogger())
	r := chi.NewRouter()
	h.MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest(http.MethodPost, "/invoices?driver_id=d1", nil), "ADMIN"))
	require.Equal(t, http.StatusAccepted, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "k9", body["key"])
	assert.Equal(t, "d1", enqueuer.payload.Criteria.DriverID)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest(http.MethodGet, "/invoices/k9", nil), "ADMIN"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, store.Put(context.Background(), "k9", "RPT-000009", []byte("%PDF")))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest(http.MethodGet, "/invoices/k9", nil), "ADMIN"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "RPT-000009.pdf")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, signedIn(httptest.NewRequest(http.MethodPost, "/invoices", nil), "VIEWER"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}
