package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/skybooker/internal/repository"
)

// Job type constants. These must match the JobHandler.Type() values.
const (
	JobTypeRenderThumbnails = "render_thumbnails"
	JobTypeSendBookingEmail = "send_booking_email"
)

// Priority constants for job scheduling
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// RenderThumbnailsPayload lists image keys and the WxH sizes to render
// for each of them.
type RenderThumbnailsPayload struct {
	Keys  []string `json:"keys"`
	Sizes []string `json:"sizes"`
}

// Enqueuer inserts job rows. *repository.Queries satisfies it.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, arg repository.EnqueueJobParams) (repository.Job, error)
}

// SendBookingEmailPayload names the booking whose status notice is sent.
// The status is the one the notice announces; a booking that has since
// moved on is not mailed.
type SendBookingEmailPayload struct {
	BookingID uuid.UUID `json:"booking_id"`
	Status    string    `json:"status"`
}

// EnqueueOption customizes the queued row.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// WithDelay schedules the job to run after a delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = p.ScheduledAt.Add(delay)
	}
}

// EnqueueJob marshals payload and inserts a pending job.
func EnqueueJob(
	ctx context.Context,
	queries Enqueuer,
	jobType string,
	payload any,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.Job{}, fmt.Errorf("marshal payload: %w", err)
	}

	params := repository.EnqueueJobParams{
		ID:          uuid.New(),
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&params)
	}

	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}
	return job, nil
}

// EnqueueRenderThumbnails queues thumbnail rendering for keys at sizes.
// Empty keys are dropped; nothing is queued when none remain.
func EnqueueRenderThumbnails(
	ctx context.Context,
	queries Enqueuer,
	keys []string,
	sizes []string,
	opts ...EnqueueOption,
) (repository.Job, bool, error) {
	payload := RenderThumbnailsPayload{Sizes: sizes}
	for _, k := range keys {
		if k != "" {
			payload.Keys = append(payload.Keys, k)
		}
	}
	if len(payload.Keys) == 0 || len(sizes) == 0 {
		return repository.Job{}, false, nil
	}

	job, err := EnqueueJob(ctx, queries, JobTypeRenderThumbnails, payload, opts...)
	if err != nil {
		return repository.Job{}, false, err
	}
	return job, true, nil
}

// EnqueueSendBookingEmail queues the status notice for a booking.
func EnqueueSendBookingEmail(
	ctx context.Context,
	queries Enqueuer,
	bookingID uuid.UUID,
	status string,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := SendBookingEmailPayload{BookingID: bookingID, Status: status}
	opts = append([]EnqueueOption{WithPriority(PriorityHigh), WithMaxAttempts(5)}, opts...)
	return EnqueueJob(ctx, queries, JobTypeSendBookingEmail, payload, opts...)
}
