package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/invoice"
	jobmetrics "github.com/sitelog/intake/internal/jobs"
	"github.com/sitelog/intake/internal/platform/httpx"
)

// ErrRenderPending is returned while a queued render has not finished.
var ErrRenderPending = fmt.Errorf("invoice render not ready: %w", httpx.ErrNotFound)

// InvoicePDFs produces invoice PDFs.
type InvoicePDFs interface {
	PDF(ctx context.Context, criteria intake.Criteria, now time.Time) (invoice.Document, []byte, error)
}

// RenderStore keeps rendered invoice PDFs in redis under a caller-chosen key.
type RenderStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRenderStore constructs a RenderStore.
func NewRenderStore(client *redis.Client, ttl time.Duration) *RenderStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RenderStore{client: client, ttl: ttl}
}

type renderedPDF struct {
	ReportNumber string `json:"report_number"`
	Data         []byte `json:"data"`
}

// Put stores a rendered PDF.
func (s *RenderStore) Put(ctx context.Context, key, reportNumber string, data []byte) error {
	raw, err := json.Marshal(renderedPDF{ReportNumber: reportNumber, Data: data})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, renderKey(key), raw, s.ttl).Err()
}

// Get returns the report number and PDF stored under key.
func (s *RenderStore) Get(ctx context.Context, key string) (string, []byte, error) {
	raw, err := s.client.Get(ctx, renderKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", nil, ErrRenderPending
	}
	if err != nil {
		return "", nil, err
	}
	var out renderedPDF
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", nil, err
	}
	return out.ReportNumber, out.Data, nil
}

func renderKey(key string) string {
	return "invoice:pdf:" + key
}

// InvoiceRenderJob renders invoice PDFs off the request path.
type InvoiceRenderJob struct {
	Invoices InvoicePDFs
	Store    *RenderStore
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewInvoiceRenderJob wires dependencies for the render handler.
func NewInvoiceRenderJob(invoices InvoicePDFs, store *RenderStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *InvoiceRenderJob {
	return &InvoiceRenderJob{Invoices: invoices, Store: store, Logger: logger, Metrics: metrics}
}

// Handle processes invoice render tasks.
func (j *InvoiceRenderJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Invoices == nil || j.Store == nil {
		return errors.New("invoice render: handler not configured")
	}
	var payload InvoiceRenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Key == "" {
		return asynq.SkipRetry
	}

	tracker := metricsOrDefault(j.Metrics).Track(TaskInvoiceRender)
	defer func() { err = tracker.End(err) }()

	logger := jobLogger(j.Logger, TaskInvoiceRender).With(slog.String("key", payload.Key))
	requested := payload.RequestedAt
	if requested.IsZero() {
		requested = time.Now()
	}

	doc, pdf, err := j.Invoices.PDF(ctx, payload.Criteria, requested)
	if errors.Is(err, httpx.ErrValidation) {
		logger.Warn("invoice render rejected", slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		logger.Error("render invoice", slog.Any("error", err))
		return err
	}
	if err = j.Store.Put(ctx, payload.Key, doc.Header.ReportNumber, pdf); err != nil {
		logger.Error("store invoice", slog.Any("error", err))
		return err
	}
	metricsOrDefault(j.Metrics).AddRenderedBytes(len(pdf))
	logger.Info("invoice rendered", slog.String("report_number", doc.Header.ReportNumber), slog.Int("bytes", len(pdf)))
	return nil
}
