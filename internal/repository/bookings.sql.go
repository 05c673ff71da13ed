package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const createBooking = `-- name: CreateBooking :one
INSERT INTO bookings (id, flight_id, passenger, status)
VALUES ($1, $2, $3, $4)
RETURNING id, flight_id, passenger, status, created_at, confirmed_at
`

type CreateBookingParams struct {
	ID        uuid.UUID             `json:"id"`
	FlightID  int64                 `json:"flight_id"`
	Passenger pqtype.NullRawMessage `json:"passenger"`
	Status    string                `json:"status"`
}

func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error) {
	row := q.db.QueryRowContext(ctx, createBooking,
		arg.ID,
		arg.FlightID,
		arg.Passenger,
		arg.Status,
	)
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.FlightID,
		&i.Passenger,
		&i.Status,
		&i.CreatedAt,
		&i.ConfirmedAt,
	)
	return i, err
}

const getBooking = `-- name: GetBooking :one
SELECT id, flight_id, passenger, status, created_at, confirmed_at
FROM bookings
WHERE id = $1
`

func (q *Queries) GetBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	row := q.db.QueryRowContext(ctx, getBooking, id)
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.FlightID,
		&i.Passenger,
		&i.Status,
		&i.CreatedAt,
		&i.ConfirmedAt,
	)
	return i, err
}

const updateBookingStatus = `-- name: UpdateBookingStatus :one
UPDATE bookings
SET status = $3,
    confirmed_at = $4
WHERE id = $1
  AND status = $2
RETURNING id, flight_id, passenger, status, created_at, confirmed_at
`

type UpdateBookingStatusParams struct {
	ID          uuid.UUID    `json:"id"`
	FromStatus  string       `json:"from_status"`
	Status      string       `json:"status"`
	ConfirmedAt sql.NullTime `json:"confirmed_at"`
}

func (q *Queries) UpdateBookingStatus(ctx context.Context, arg UpdateBookingStatusParams) (Booking, error) {
	row := q.db.QueryRowContext(ctx, updateBookingStatus,
		arg.ID,
		arg.FromStatus,
		arg.Status,
		arg.ConfirmedAt,
	)
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.FlightID,
		&i.Passenger,
		&i.Status,
		&i.CreatedAt,
		&i.ConfirmedAt,
	)
	return i, err
}
