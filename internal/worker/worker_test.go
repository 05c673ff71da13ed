package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeQueue struct {
	mu        sync.Mutex
	pending   []repository.Job
	enqueued  []repository.EnqueueJobParams
	completed []uuid.UUID
	failed    []repository.UpdateJobFailedParams
	claimErr  error
	recovered int64
}

func (q *fakeQueue) ClaimJob(ctx context.Context) (repository.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.claimErr != nil {
		return repository.Job{}, q.claimErr
	}
	if len(q.pending) == 0 {
		return repository.Job{}, sql.ErrNoRows
	}
	job := q.pending[0]
	q.pending = q.pending[1:]
	job.Status = "running"
	job.Attempts++
	return job, nil
}

func (q *fakeQueue) RecoverStaleJobs(ctx context.Context, thresholdSeconds float64) (int64, error) {
	return q.recovered, nil
}

func (q *fakeQueue) UpdateJobCompleted(ctx context.Context, id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.completed = append(q.completed, id)
	return nil
}

func (q *fakeQueue) UpdateJobFailed(ctx context.Context, arg repository.UpdateJobFailedParams) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed = append(q.failed, arg)
	return nil
}

func (q *fakeQueue) EnqueueJob(ctx context.Context, arg repository.EnqueueJobParams) (repository.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, arg)
	job := repository.Job{
		ID:          arg.ID,
		JobType:     arg.JobType,
		Payload:     arg.Payload,
		Status:      "pending",
		Priority:    arg.Priority,
		MaxAttempts: arg.MaxAttempts,
		ScheduledAt: arg.ScheduledAt,
	}
	q.pending = append(q.pending, job)
	return job, nil
}

type fakeHandler struct {
	jobType  string
	err      error
	payloads [][]byte
}

func (h *fakeHandler) Type() string { return h.jobType }

func (h *fakeHandler) Handle(ctx context.Context, payload []byte) error {
	h.payloads = append(h.payloads, payload)
	return h.err
}

func newTestWorker(t *testing.T, q Queue, handlers ...JobHandler) *Worker {
	t.Helper()
	w, err := New(q, DefaultConfig(), testLogger())
	require.NoError(t, err)
	for _, h := range handlers {
		w.Register(h)
	}
	return w
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"concurrency too low", func(c *Config) { c.Concurrency = 0 }, true},
		{"concurrency too high", func(c *Config) { c.Concurrency = 33 }, true},
		{"poll interval too short", func(c *Config) { c.PollInterval = 10 * time.Millisecond }, true},
		{"job timeout too short", func(c *Config) { c.JobTimeout = 0 }, true},
		{"stale threshold too short", func(c *Config) { c.StaleJobThreshold = 30 * time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsPermanent(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewPermanentError(io.EOF))

	assert.True(t, IsPermanent(NewPermanentError(context.Canceled)))
	assert.True(t, IsPermanent(wrapped))
	assert.False(t, IsPermanent(context.Canceled))
	assert.False(t, IsPermanent(nil))
	assert.ErrorIs(t, NewPermanentError(io.EOF), io.EOF)
}

func TestEnqueueRenderThumbnails(t *testing.T) {
	q := &fakeQueue{}

	job, ok, err := EnqueueRenderThumbnails(context.Background(), q,
		[]string{"places/dad.jpg", "", "promo/card-next.jpg"},
		[]string{"320x200"},
		WithPriority(PriorityLow),
	)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, JobTypeRenderThumbnails, job.JobType)
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, int32(PriorityLow), job.Priority)
	assert.Equal(t, int32(3), job.MaxAttempts)

	var payload RenderThumbnailsPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, []string{"places/dad.jpg", "promo/card-next.jpg"}, payload.Keys)
	assert.Equal(t, []string{"320x200"}, payload.Sizes)
}

func TestEnqueueRenderThumbnails_NothingToDo(t *testing.T) {
	q := &fakeQueue{}

	_, ok, err := EnqueueRenderThumbnails(context.Background(), q, []string{""}, []string{"320x200"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, q.enqueued)
}

func TestProcessNextJob_Completes(t *testing.T) {
	q := &fakeQueue{}
	h := &fakeHandler{jobType: JobTypeRenderThumbnails}
	w := newTestWorker(t, q, h)

	job, err := EnqueueJob(context.Background(), q, JobTypeRenderThumbnails, map[string]int{"n": 1})
	require.NoError(t, err)

	require.NoError(t, w.processNextJob(context.Background(), testLogger()))
	assert.Equal(t, []uuid.UUID{job.ID}, q.completed)
	assert.Empty(t, q.failed)
	require.Len(t, h.payloads, 1)
	assert.JSONEq(t, `{"n":1}`, string(h.payloads[0]))

	assert.ErrorIs(t, w.processNextJob(context.Background(), testLogger()), sql.ErrNoRows)
}

func TestProcessNextJob_Failures(t *testing.T) {
	tests := []struct {
		name          string
		jobType       string
		handlerErr    error
		wantPermanent bool
	}{
		{"retryable handler error", JobTypeRenderThumbnails, errors.New("storage timeout"), false},
		{"permanent handler error", JobTypeRenderThumbnails, NewPermanentError(errors.New("bad payload")), true},
		{"unknown job type", "unknown", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQueue{}
			w := newTestWorker(t, q, &fakeHandler{jobType: JobTypeRenderThumbnails, err: tt.handlerErr})

			job, err := EnqueueJob(context.Background(), q, tt.jobType, struct{}{})
			require.NoError(t, err)

			err = w.processNextJob(context.Background(), testLogger())
			require.Error(t, err)
			assert.Empty(t, q.completed)
			require.Len(t, q.failed, 1)
			assert.Equal(t, job.ID, q.failed[0].ID)
			assert.Equal(t, tt.wantPermanent, q.failed[0].Permanent)
			assert.True(t, q.failed[0].ErrorMessage.Valid)
		})
	}
}

func TestProcessNextJob_ClaimError(t *testing.T) {
	q := &fakeQueue{claimErr: errors.New("connection reset")}
	w := newTestWorker(t, q)

	err := w.processNextJob(context.Background(), testLogger())
	require.Error(t, err)
	assert.NotErrorIs(t, err, sql.ErrNoRows)
}

func TestStartStop_DrainsQueue(t *testing.T) {
	q := &fakeQueue{recovered: 1}
	h := &fakeHandler{jobType: JobTypeRenderThumbnails}

	cfg := DefaultConfig()
	cfg.PollInterval = 100 * time.Millisecond
	w, err := New(q, cfg, testLogger())
	require.NoError(t, err)
	w.Register(h)

	for i := 0; i < 3; i++ {
		_, err := EnqueueJob(context.Background(), q, JobTypeRenderThumbnails, struct{}{})
		require.NoError(t, err)
	}

	w.Start(context.Background())
	require.Eventually(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return len(q.completed) == 3
	}, 5*time.Second, 20*time.Millisecond)
	w.Stop()
	w.Stop()
}

func TestEnqueueSendBookingEmail(t *testing.T) {
	q := &fakeQueue{}
	id := uuid.New()

	job, err := EnqueueSendBookingEmail(context.Background(), q, id, "confirmed", WithMaxAttempts(2))
	require.NoError(t, err)

	assert.Equal(t, JobTypeSendBookingEmail, job.JobType)
	assert.Equal(t, int32(PriorityHigh), job.Priority)
	assert.Equal(t, int32(2), job.MaxAttempts)

	var payload SendBookingEmailPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, id, payload.BookingID)
	assert.Equal(t, "confirmed", payload.Status)
}
