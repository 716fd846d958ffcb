package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/masterdata"
	"github.com/sitelog/intake/internal/users"
	"github.com/sitelog/intake/jobs"
)

type captureEnqueuer struct {
	tasks []*asynq.Task
}

func (c *captureEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type(), Queue: jobs.QueueDefault}, nil
}

func TestTriggerDashboardWarmup(t *testing.T) {
	enq := &captureEnqueuer{}
	c := &JobsCLI{client: enq}

	info, err := c.Trigger(context.Background(), TriggerOptions{Name: jobs.TaskDashboardWarmup})
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskDashboardWarmup, info.Type)

	var payload jobs.DashboardWarmupPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, "manual", payload.Reason)
}

func TestTriggerInvoiceRender(t *testing.T) {
	enq := &captureEnqueuer{}
	c := &JobsCLI{client: enq}
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	_, err := c.Trigger(context.Background(), TriggerOptions{
		Name:     jobs.TaskInvoiceRender,
		Key:      "march",
		Criteria: intake.Criteria{ProjectID: "p1", FromDate: "1403/01/01"},
		Now:      now,
	})
	require.NoError(t, err)

	var payload jobs.InvoiceRenderPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, "march", payload.Key)
	assert.Equal(t, "p1", payload.Criteria.ProjectID)
	assert.True(t, now.Equal(payload.RequestedAt))
}

func TestTriggerRejectsUnknownJob(t *testing.T) {
	c := &JobsCLI{client: &captureEnqueuer{}}
	_, err := c.Trigger(context.Background(), TriggerOptions{Name: "mail:send"})
	assert.Error(t, err)

	var nilCLI *JobsCLI
	_, err = nilCLI.Trigger(context.Background(), TriggerOptions{Name: jobs.TaskDashboardWarmup})
	assert.Error(t, err)
}

type stubUsers struct {
	got users.CreateRequest
}

func (s *stubUsers) Create(_ context.Context, req users.CreateRequest) (users.User, error) {
	s.got = req
	return users.User{ID: "u1", Username: req.Username}, nil
}

func TestSeedUser(t *testing.T) {
	svc := &stubUsers{}
	_, err := SeedUser(context.Background(), svc, SeedUserOptions{Username: "reza", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "reza", svc.got.Name)
	assert.Equal(t, "MANAGER", svc.got.Role)

	_, err = SeedUser(context.Background(), svc, SeedUserOptions{Username: "x", Role: "root"})
	assert.Error(t, err)
}

type stubReferences struct {
	created []string
}

func (s *stubReferences) Create(_ context.Context, kind masterdata.Kind, req masterdata.CreateRequest) (masterdata.Entity, error) {
	s.created = append(s.created, string(kind)+":"+req.Name+":"+req.DefaultPlate)
	return masterdata.Entity{ID: req.Name, Name: req.Name}, nil
}

func TestSeedReferences(t *testing.T) {
	svc := &stubReferences{}
	out, err := SeedReferences(context.Background(), svc, masterdata.KindDriver, []string{"علی", "حسن"}, "12ب345")
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"driver:علی:12ب345", "driver:حسن:12ب345"}, svc.created)

	_, err = SeedReferences(context.Background(), svc, masterdata.Kind("truck"), []string{"x"}, "")
	assert.Error(t, err)
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	for _, name := range []string{"migrate", "seed", "jobs"} {
		assert.Contains(t, out.String(), name)
	}

	cmd, _, err := root.Find([]string{"jobs", "trigger"})
	require.NoError(t, err)
	assert.Equal(t, "trigger <job>", cmd.Use)
}
