package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	// BookingStatusPending is a booking awaiting the final confirmation.
	BookingStatusPending BookingStatus = "pending"

	// BookingStatusConfirmed is a booking the customer confirmed.
	BookingStatusConfirmed BookingStatus = "confirmed"

	// BookingStatusCancelled is a booking the customer abandoned.
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if a booking can move to the target status.
// Only pending bookings change state; confirmed and cancelled are final.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	if s != BookingStatusPending {
		return false
	}
	return target == BookingStatusConfirmed || target == BookingStatusCancelled
}

// Passenger holds the traveller details captured with a booking.
// It is stored as JSON alongside the booking row.
type Passenger struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// Validate checks the passenger details.
func (p Passenger) Validate() error {
	const op = "Passenger.Validate"
	ve := Validation(op)
	if strings.TrimSpace(p.FullName) == "" {
		ve.Add("full_name", "Vui lòng nhập họ và tên")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		ve.Add("email", "Vui lòng nhập email hợp lệ")
	}
	return ve.Err()
}

// Booking is a reservation for one passenger on one flight.
type Booking struct {
	ID          uuid.UUID
	FlightID    int64
	Passenger   Passenger
	Status      BookingStatus
	CreatedAt   time.Time
	ConfirmedAt *time.Time

	// Populated by the service for display
	Flight *Flight
}

// TransitionTo moves the booking to the target status.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !b.Status.CanTransitionTo(target) {
		return Conflict("Booking.TransitionTo", fmt.Sprintf("Không thể chuyển đặt chỗ từ %s sang %s", b.Status, target))
	}
	b.Status = target
	return nil
}

// IsPending returns true while the booking still awaits confirmation.
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// Reference returns the short customer-facing booking code.
func (b *Booking) Reference() string {
	return strings.ToUpper(strings.ReplaceAll(b.ID.String(), "-", "")[:8])
}

// CreateBookingParams contains validated parameters for creating a booking.
type CreateBookingParams struct {
	FlightID  int64
	Passenger Passenger
}
