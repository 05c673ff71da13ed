package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/email"
	"github.com/DukeRupert/skybooker/internal/repository"
	"github.com/DukeRupert/skybooker/internal/templ/shared"
	"github.com/DukeRupert/skybooker/internal/worker"
)

type fakeBookings struct {
	booking *domain.Booking
	err     error
}

func (f *fakeBookings) Create(ctx context.Context, params domain.CreateBookingParams) (*domain.Booking, error) {
	return nil, errors.New("not used")
}

func (f *fakeBookings) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.booking == nil || f.booking.ID != id {
		return nil, domain.NotFound("fakeBookings.Get", "booking", id.String())
	}
	return f.booking, nil
}

func (f *fakeBookings) Confirm(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return nil, errors.New("not used")
}

func (f *fakeBookings) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return nil, errors.New("not used")
}

type fakeMailer struct {
	sent []email.BookingMessage
	err  error
}

func (m *fakeMailer) SendBookingStatus(ctx context.Context, msg email.BookingMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeEnqueuer struct {
	params []repository.EnqueueJobParams
	err    error
}

func (e *fakeEnqueuer) EnqueueJob(ctx context.Context, arg repository.EnqueueJobParams) (repository.Job, error) {
	if e.err != nil {
		return repository.Job{}, e.err
	}
	e.params = append(e.params, arg)
	return repository.Job{ID: arg.ID, JobType: arg.JobType, Payload: arg.Payload}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:       uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000001"),
		FlightID: 7,
		Passenger: domain.Passenger{
			FullName: "Trần Thị B",
			Email:    "b@example.vn",
		},
		Status: domain.BookingStatusConfirmed,
		Flight: &domain.Flight{
			ID:          7,
			Number:      "VN213",
			Airline:     "Vietnam Airlines",
			Origin:      "HAN",
			Destination: "SGN",
			DepartAt:    time.Date(2030, 5, 1, 1, 15, 0, 0, time.UTC),
			FareVND:     1290000,
		},
	}
}

func payloadFor(t *testing.T, id uuid.UUID, status string) []byte {
	t.Helper()
	b, err := json.Marshal(worker.SendBookingEmailPayload{BookingID: id, Status: status})
	require.NoError(t, err)
	return b
}

func TestSendBookingEmail_SendsNotice(t *testing.T) {
	b := confirmedBooking()
	mailer := &fakeMailer{}
	h := NewSendBookingEmailHandler(&fakeBookings{booking: b}, mailer, "https://skybooker.vn/", discardLogger())

	require.NoError(t, h.Handle(context.Background(), payloadFor(t, b.ID, "confirmed")))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "b@example.vn", msg.To)
	assert.Equal(t, "Trần Thị B", msg.Name)
	assert.Equal(t, "1A2B3C4D", msg.Reference)
	assert.Equal(t, "confirmed", msg.Status)
	assert.Equal(t, "Vietnam Airlines VN213", msg.Flight)
	assert.Equal(t, "HAN → SGN", msg.Route)
	assert.Equal(t, "08:15 01/05/2030", msg.DepartAt)
	assert.Equal(t, shared.FormatVND(1290000), msg.Fare)
	assert.Equal(t, "https://skybooker.vn/bookings/"+b.ID.String(), msg.URL)
	assert.Equal(t, worker.JobTypeSendBookingEmail, h.Type())
}

func TestSendBookingEmail_StaleStatusIsDropped(t *testing.T) {
	b := confirmedBooking()
	mailer := &fakeMailer{}
	h := NewSendBookingEmailHandler(&fakeBookings{booking: b}, mailer, "http://localhost:8080", discardLogger())

	require.NoError(t, h.Handle(context.Background(), payloadFor(t, b.ID, "cancelled")))
	assert.Empty(t, mailer.sent)
}

func TestSendBookingEmail_Errors(t *testing.T) {
	b := confirmedBooking()

	tests := []struct {
		name          string
		bookings      *fakeBookings
		mailer        *fakeMailer
		payload       []byte
		wantPermanent bool
	}{
		{
			name:          "invalid payload",
			bookings:      &fakeBookings{booking: b},
			mailer:        &fakeMailer{},
			payload:       []byte(`nope`),
			wantPermanent: true,
		},
		{
			name:          "unknown booking",
			bookings:      &fakeBookings{booking: b},
			mailer:        &fakeMailer{},
			payload:       payloadFor(t, uuid.New(), "confirmed"),
			wantPermanent: true,
		},
		{
			name:     "database down",
			bookings: &fakeBookings{err: domain.Internal(errors.New("conn refused"), "op", "Failed to load booking")},
			mailer:   &fakeMailer{},
			payload:  payloadFor(t, b.ID, "confirmed"),
		},
		{
			name:     "smtp down",
			bookings: &fakeBookings{booking: b},
			mailer:   &fakeMailer{err: errors.New("dial tcp: connection refused")},
			payload:  payloadFor(t, b.ID, "confirmed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSendBookingEmailHandler(tt.bookings, tt.mailer, "http://localhost:8080", discardLogger())

			err := h.Handle(context.Background(), tt.payload)
			require.Error(t, err)
			assert.Equal(t, tt.wantPermanent, worker.IsPermanent(err))
			assert.Empty(t, tt.mailer.sent)
		})
	}
}

func TestBookingEmailNotifier(t *testing.T) {
	b := confirmedBooking()
	q := &fakeEnqueuer{}
	n := NewBookingEmailNotifier(q, discardLogger())

	n.BookingChanged(context.Background(), b)

	require.Len(t, q.params, 1)
	assert.Equal(t, worker.JobTypeSendBookingEmail, q.params[0].JobType)
	var p worker.SendBookingEmailPayload
	require.NoError(t, json.Unmarshal(q.params[0].Payload, &p))
	assert.Equal(t, b.ID, p.BookingID)
	assert.Equal(t, "confirmed", p.Status)
}

func TestBookingEmailNotifier_EnqueueFailureIsSwallowed(t *testing.T) {
	q := &fakeEnqueuer{err: errors.New("db down")}
	n := NewBookingEmailNotifier(q, discardLogger())

	assert.NotPanics(t, func() {
		n.BookingChanged(context.Background(), confirmedBooking())
	})
}
