package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sitelog/intake/internal/intake"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup rebuilds the cached dashboard.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskInvoiceRender renders an invoice PDF and parks it in redis.
	TaskInvoiceRender = "invoice:render"
)

// warmupUniqueness collapses bursts of mutations into one warmup.
const warmupUniqueness = 30 * time.Second

// DashboardWarmupPayload identifies why a warmup was requested.
type DashboardWarmupPayload struct {
	Reason string `json:"reason"`
}

// InvoiceRenderPayload describes a deferred invoice render.
type InvoiceRenderPayload struct {
	Key         string          `json:"key"`
	Criteria    intake.Criteria `json:"criteria"`
	RequestedAt time.Time       `json:"requested_at"`
}

// NewDashboardWarmupTask constructs a dashboard warmup task.
func NewDashboardWarmupTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(DashboardWarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// NewInvoiceRenderTask constructs an invoice render task.
func NewInvoiceRenderTask(payload InvoiceRenderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceRender, data), nil
}
