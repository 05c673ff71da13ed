package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/repository"
)

func newTestBookingService(q *fakeQueries, now time.Time) *bookingService {
	s := NewBookingService(q, nil, testLogger()).(*bookingService)
	s.now = func() time.Time { return now }
	return s
}

func seededBooking(t *testing.T) (*bookingService, *fakeQueries, *domain.Booking) {
	t.Helper()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, ict)
	q := newFakeQueries()
	q.flights[7] = flightRow(7, "HAN", "SGN", now.Add(72*time.Hour))
	s := newTestBookingService(q, now)

	b, err := s.Create(context.Background(), domain.CreateBookingParams{
		FlightID:  7,
		Passenger: domain.Passenger{FullName: "  Trần Thị B ", Email: "B@Example.VN", Phone: "0901234567"},
	})
	require.NoError(t, err)
	return s, q, b
}

func TestBookingService_Create(t *testing.T) {
	_, q, b := seededBooking(t)

	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Equal(t, "Trần Thị B", b.Passenger.FullName)
	assert.Equal(t, "b@example.vn", b.Passenger.Email)
	require.NotNil(t, b.Flight)
	assert.Equal(t, int64(7), b.Flight.ID)

	stored := q.bookings[b.ID]
	assert.True(t, stored.Passenger.Valid)
	assert.JSONEq(t, `{"full_name":"Trần Thị B","email":"b@example.vn","phone":"0901234567"}`, string(stored.Passenger.RawMessage))
}

func TestBookingService_CreateRejectsInvalidPassenger(t *testing.T) {
	q := newFakeQueries()
	s := newTestBookingService(q, time.Now())

	_, err := s.Create(context.Background(), domain.CreateBookingParams{FlightID: 1})

	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Zero(t, q.calls["CreateBooking"])
}

func TestBookingService_CreateRejectsDepartedFlight(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, ict)
	q := newFakeQueries()
	q.flights[1] = flightRow(1, "HAN", "SGN", now.Add(-time.Minute))
	s := newTestBookingService(q, now)

	_, err := s.Create(context.Background(), domain.CreateBookingParams{
		FlightID:  1,
		Passenger: domain.Passenger{FullName: "A", Email: "a@example.vn"},
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestBookingService_CreateUnknownFlight(t *testing.T) {
	s := newTestBookingService(newFakeQueries(), time.Now())

	_, err := s.Create(context.Background(), domain.CreateBookingParams{
		FlightID:  99,
		Passenger: domain.Passenger{FullName: "A", Email: "a@example.vn"},
	})
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestBookingService_Confirm(t *testing.T) {
	s, q, b := seededBooking(t)

	confirmed, err := s.Confirm(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.NotNil(t, confirmed.Flight)
	assert.Equal(t, "confirmed", q.bookings[b.ID].Status)
}

func TestBookingService_Cancel(t *testing.T) {
	s, q, b := seededBooking(t)

	cancelled, err := s.Cancel(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.ConfirmedAt)
	assert.False(t, q.bookings[b.ID].ConfirmedAt.Valid)
}

type recordingNotifier struct {
	statuses []domain.BookingStatus
}

func (n *recordingNotifier) BookingChanged(ctx context.Context, b *domain.Booking) {
	n.statuses = append(n.statuses, b.Status)
}

func TestBookingService_NotifiesFinalStatus(t *testing.T) {
	s, _, b := seededBooking(t)
	n := &recordingNotifier{}
	s.notifier = n

	_, err := s.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	_, err = s.Cancel(context.Background(), b.ID)
	require.Error(t, err)

	assert.Equal(t, []domain.BookingStatus{domain.BookingStatusConfirmed}, n.statuses)
}

func TestBookingService_FinalStatesAreFinal(t *testing.T) {
	s, q, b := seededBooking(t)
	ctx := context.Background()

	_, err := s.Confirm(ctx, b.ID)
	require.NoError(t, err)

	_, err = s.Cancel(ctx, b.ID)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	_, err = s.Confirm(ctx, b.ID)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	assert.Equal(t, 1, q.calls["UpdateBookingStatus"])
}

func TestBookingService_ConcurrentChangeIsConflict(t *testing.T) {
	s, q, b := seededBooking(t)
	q.beforeUpdate = func(row *repository.Booking) {
		row.Status = "cancelled"
	}

	_, err := s.Confirm(context.Background(), b.ID)

	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	assert.Equal(t, "pending", q.bookings[b.ID].Status)
}

func TestBookingService_GetNotFound(t *testing.T) {
	s := newTestBookingService(newFakeQueries(), time.Now())

	_, err := s.Get(context.Background(), uuid.New())
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}
