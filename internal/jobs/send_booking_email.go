package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/email"
	"github.com/DukeRupert/skybooker/internal/service"
	"github.com/DukeRupert/skybooker/internal/templ/shared"
	"github.com/DukeRupert/skybooker/internal/worker"
)

// BookingEmailNotifier queues a status notice whenever a booking is
// confirmed or cancelled.
type BookingEmailNotifier struct {
	queue  worker.Enqueuer
	logger *slog.Logger
}

// NewBookingEmailNotifier creates a notifier that enqueues send_booking_email jobs.
func NewBookingEmailNotifier(queue worker.Enqueuer, logger *slog.Logger) *BookingEmailNotifier {
	return &BookingEmailNotifier{queue: queue, logger: logger}
}

// BookingChanged enqueues the notice. The booking change already happened,
// so a failure here is logged and not returned.
func (n *BookingEmailNotifier) BookingChanged(ctx context.Context, b *domain.Booking) {
	job, err := worker.EnqueueSendBookingEmail(ctx, n.queue, b.ID, b.Status.String())
	if err != nil {
		n.logger.Error("Failed to enqueue booking email", "booking_id", b.ID, "error", err)
		return
	}
	n.logger.Debug("Booking email queued", "booking_id", b.ID, "job_id", job.ID)
}

var _ service.BookingNotifier = (*BookingEmailNotifier)(nil)

// SendBookingEmailHandler mails the passenger the status notice of a booking.
type SendBookingEmailHandler struct {
	bookings service.BookingService
	mailer   email.Mailer
	baseURL  string
	logger   *slog.Logger
}

// NewSendBookingEmailHandler creates the handler for send_booking_email jobs.
// baseURL is the public origin used for the booking link.
func NewSendBookingEmailHandler(
	bookings service.BookingService,
	mailer email.Mailer,
	baseURL string,
	logger *slog.Logger,
) *SendBookingEmailHandler {
	return &SendBookingEmailHandler{
		bookings: bookings,
		mailer:   mailer,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   logger.With("job_type", worker.JobTypeSendBookingEmail),
	}
}

// Type returns the job type identifier.
func (h *SendBookingEmailHandler) Type() string {
	return worker.JobTypeSendBookingEmail
}

// Handle loads the booking and sends the notice for its current status.
func (h *SendBookingEmailHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.SendBookingEmailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}

	booking, err := h.bookings.Get(ctx, p.BookingID)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return worker.NewPermanentError(err)
		}
		return err
	}

	if booking.Status.String() != p.Status {
		h.logger.Warn("Booking status moved on, notice dropped",
			"booking_id", booking.ID,
			"queued_status", p.Status,
			"status", booking.Status,
		)
		return nil
	}

	msg := h.message(booking)
	if err := h.mailer.SendBookingStatus(ctx, msg); err != nil {
		return fmt.Errorf("send booking email: %w", err)
	}

	h.logger.Info("Booking email sent", "booking_id", booking.ID, "status", p.Status)
	return nil
}

func (h *SendBookingEmailHandler) message(b *domain.Booking) email.BookingMessage {
	msg := email.BookingMessage{
		To:        b.Passenger.Email,
		Name:      b.Passenger.FullName,
		Reference: b.Reference(),
		Status:    b.Status.String(),
		URL:       fmt.Sprintf("%s/bookings/%s", h.baseURL, b.ID),
	}
	if f := b.Flight; f != nil {
		depart := f.DepartAt.In(domain.Timezone)
		msg.Flight = strings.TrimSpace(f.Airline + " " + f.Number)
		msg.Route = f.Route()
		msg.DepartAt = shared.FormatTime(depart) + " " + shared.FormatDate(depart)
		msg.Fare = shared.FormatVND(f.FareVND)
	}
	return msg
}
