package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/metrics"
	"github.com/DukeRupert/skybooker/internal/repository"
)

// BookingService defines the booking lifecycle: create a pending booking,
// then confirm or cancel it from the final confirmation dialog.
type BookingService interface {
	// Create validates the passenger and stores a pending booking.
	Create(ctx context.Context, params domain.CreateBookingParams) (*domain.Booking, error)

	// Get returns a booking with its flight populated.
	Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// Confirm moves a pending booking to confirmed.
	Confirm(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// Cancel moves a pending booking to cancelled.
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

// BookingNotifier is told about every booking that reaches a final status.
// It must not block on delivery; failures are its own to log.
type BookingNotifier interface {
	BookingChanged(ctx context.Context, booking *domain.Booking)
}

type bookingService struct {
	queries  repository.Querier
	notifier BookingNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService. notifier may be nil.
func NewBookingService(queries repository.Querier, notifier BookingNotifier, logger *slog.Logger) BookingService {
	return &bookingService{
		queries:  queries,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, params domain.CreateBookingParams) (*domain.Booking, error) {
	const op = "BookingService.Create"

	passenger := domain.Passenger{
		FullName: strings.TrimSpace(params.Passenger.FullName),
		Email:    strings.ToLower(strings.TrimSpace(params.Passenger.Email)),
		Phone:    strings.TrimSpace(params.Passenger.Phone),
	}
	if err := passenger.Validate(); err != nil {
		return nil, err
	}

	flight, err := s.flight(ctx, op, params.FlightID)
	if err != nil {
		return nil, err
	}
	if !flight.DepartAt.After(s.now()) {
		return nil, domain.Invalid(op, "Chuyến bay này đã khởi hành")
	}

	raw, err := passengerToNullRawMessage(passenger)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to encode passenger")
	}

	row, err := s.queries.CreateBooking(ctx, repository.CreateBookingParams{
		ID:        uuid.New(),
		FlightID:  flight.ID,
		Passenger: raw,
		Status:    domain.BookingStatusPending.String(),
	})
	if err != nil {
		s.logger.Error("failed to create booking", "error", err, "op", op, "flight_id", flight.ID)
		return nil, domain.Internal(err, op, "Failed to create booking")
	}

	booking, err := repoBookingToDomain(row)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to read booking")
	}
	booking.Flight = flight

	metrics.BookingCreated()
	s.logger.Info("booking created", "booking_id", booking.ID, "flight_id", flight.ID)

	return &booking, nil
}

func (s *bookingService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "BookingService.Get"

	row, err := s.queries.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "booking", id.String())
		}
		s.logger.Error("failed to get booking", "error", err, "op", op, "booking_id", id)
		return nil, domain.Internal(err, op, "Failed to load booking")
	}

	return s.withFlight(ctx, op, row)
}

func (s *bookingService) Confirm(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.transition(ctx, "BookingService.Confirm", id, domain.BookingStatusConfirmed)
}

func (s *bookingService) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.transition(ctx, "BookingService.Cancel", id, domain.BookingStatusCancelled)
}

// transition applies the status change in memory first so illegal moves are
// rejected without a write, then updates only if the row is still pending.
func (s *bookingService) transition(ctx context.Context, op string, id uuid.UUID, target domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := booking.TransitionTo(target); err != nil {
		return nil, err
	}

	params := repository.UpdateBookingStatusParams{
		ID:         id,
		FromStatus: from.String(),
		Status:     target.String(),
	}
	if target == domain.BookingStatusConfirmed {
		params.ConfirmedAt = sql.NullTime{Time: s.now(), Valid: true}
	}

	row, err := s.queries.UpdateBookingStatus(ctx, params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Conflict(op, "Đặt chỗ vừa được cập nhật bởi một yêu cầu khác")
		}
		s.logger.Error("failed to update booking status", "error", err, "op", op, "booking_id", id)
		return nil, domain.Internal(err, op, "Failed to update booking")
	}

	metrics.BookingTransitioned(target.String())
	s.logger.Info("booking status changed", "booking_id", id, "from", from, "to", target)

	updated, err := repoBookingToDomain(row)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to read booking")
	}
	updated.Flight = booking.Flight

	if s.notifier != nil {
		s.notifier.BookingChanged(ctx, &updated)
	}
	return &updated, nil
}

func (s *bookingService) withFlight(ctx context.Context, op string, row repository.Booking) (*domain.Booking, error) {
	booking, err := repoBookingToDomain(row)
	if err != nil {
		s.logger.Error("failed to decode booking", "error", err, "op", op, "booking_id", row.ID)
		return nil, domain.Internal(err, op, "Failed to read booking")
	}

	flight, err := s.flight(ctx, op, booking.FlightID)
	if err != nil {
		return nil, err
	}
	booking.Flight = flight

	return &booking, nil
}

func (s *bookingService) flight(ctx context.Context, op string, id int64) (*domain.Flight, error) {
	row, err := s.queries.GetFlight(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "flight", strconv.FormatInt(id, 10))
		}
		s.logger.Error("failed to get flight", "error", err, "op", op, "flight_id", id)
		return nil, domain.Internal(err, op, "Failed to load flight")
	}
	flight := repoFlightToDomain(row)
	return &flight, nil
}
