package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/jobs"
)

// TaskEnqueuer submits tasks to the queue.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    TaskEnqueuer
	inspector *asynq.Inspector
	closers   []func() error
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client := asynq.NewClient(opts)
	inspector := asynq.NewInspector(opts)
	return &JobsCLI{
		client:    client,
		inspector: inspector,
		closers:   []func() error{inspector.Close, client.Close},
	}, nil
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	for _, closeFn := range c.closers {
		if closeErr := closeFn(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// TriggerOptions selects the job to enqueue and its payload.
type TriggerOptions struct {
	Name     string
	Reason   string
	Key      string
	Criteria intake.Criteria
	Now      time.Time
}

// Trigger enqueues a supported job by name.
func (c *JobsCLI) Trigger(ctx context.Context, opts TriggerOptions) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	var (
		task *asynq.Task
		err  error
	)
	switch opts.Name {
	case jobs.TaskDashboardWarmup:
		reason := opts.Reason
		if reason == "" {
			reason = "manual"
		}
		task, err = jobs.NewDashboardWarmupTask(reason)
	case jobs.TaskInvoiceRender:
		key := opts.Key
		if key == "" {
			key = uuid.NewString()
		}
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		task, err = jobs.NewInvoiceRenderTask(jobs.InvoiceRenderPayload{Key: key, Criteria: opts.Criteria, RequestedAt: now})
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", opts.Name)
	}
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault), asynq.MaxRetry(3))
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = int(info.Pending)
		stats.Active = int(info.Active)
		stats.Scheduled = int(info.Scheduled)
		stats.Retry = int(info.Retry)
	}
	return stats, nil
}

func newJobsCommand() *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and trigger background jobs",
	}

	var (
		opts     TriggerOptions
		criteria intake.Criteria
	)
	trigger := &cobra.Command{
		Use:       "trigger <job>",
		Short:     "Enqueue dashboard:warmup or invoice:render",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{jobs.TaskDashboardWarmup, jobs.TaskInvoiceRender},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := NewJobsCLI(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			opts.Name = args[0]
			opts.Criteria = criteria
			info, err := c.Trigger(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
			return nil
		},
	}
	trigger.Flags().StringVar(&opts.Reason, "reason", "", "warmup reason recorded in logs")
	trigger.Flags().StringVar(&opts.Key, "key", "", "storage key for the rendered invoice")
	trigger.Flags().StringVar(&criteria.ProjectID, "project-id", "", "invoice filter")
	trigger.Flags().StringVar(&criteria.DriverID, "driver-id", "", "invoice filter")
	trigger.Flags().StringVar(&criteria.MaterialID, "material-id", "", "invoice filter")
	trigger.Flags().StringVar(&criteria.SupplierID, "supplier-id", "", "invoice filter")
	trigger.Flags().StringVar(&criteria.PlateNumber, "plate", "", "invoice filter")
	trigger.Flags().StringVar(&criteria.FromDate, "from", "", "invoice filter, YYYY/MM/DD")
	trigger.Flags().StringVar(&criteria.ToDate, "to", "", "invoice filter, YYYY/MM/DD")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show default queue statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := NewJobsCLI(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			s, err := c.InspectQueue(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d\n", s.Queue, s.Pending, s.Active, s.Scheduled, s.Retry)
			return nil
		},
	}

	jobsCmd.AddCommand(trigger, stats)
	return jobsCmd
}
