package repository

import (
	"context"
	"time"

	"github.com/lib/pq"
)

const getFlight = `-- name: GetFlight :one
SELECT id, number, airline, origin, destination, depart_at, arrive_at, fare_vnd, amenities
FROM flights
WHERE id = $1
`

func (q *Queries) GetFlight(ctx context.Context, id int64) (Flight, error) {
	row := q.db.QueryRowContext(ctx, getFlight, id)
	var i Flight
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Airline,
		&i.Origin,
		&i.Destination,
		&i.DepartAt,
		&i.ArriveAt,
		&i.FareVnd,
		pq.Array(&i.Amenities),
	)
	return i, err
}

const listDeals = `-- name: ListDeals :many
SELECT f.id, f.number, f.airline, f.origin, f.destination, f.depart_at, f.arrive_at, f.fare_vnd, f.amenities,
       d.discount_percent
FROM deals d
JOIN flights f ON f.id = d.flight_id
WHERE f.depart_at > now()
ORDER BY d.position, f.depart_at
`

type ListDealsRow struct {
	ID              int64     `json:"id"`
	Number          string    `json:"number"`
	Airline         string    `json:"airline"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartAt        time.Time `json:"depart_at"`
	ArriveAt        time.Time `json:"arrive_at"`
	FareVnd         int64     `json:"fare_vnd"`
	Amenities       []string  `json:"amenities"`
	DiscountPercent int32     `json:"discount_percent"`
}

func (q *Queries) ListDeals(ctx context.Context) ([]ListDealsRow, error) {
	rows, err := q.db.QueryContext(ctx, listDeals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDealsRow
	for rows.Next() {
		var i ListDealsRow
		if err := rows.Scan(
			&i.ID,
			&i.Number,
			&i.Airline,
			&i.Origin,
			&i.Destination,
			&i.DepartAt,
			&i.ArriveAt,
			&i.FareVnd,
			pq.Array(&i.Amenities),
			&i.DiscountPercent,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listFlights = `-- name: ListFlights :many
SELECT id, number, airline, origin, destination, depart_at, arrive_at, fare_vnd, amenities
FROM flights
WHERE depart_at > $1
ORDER BY depart_at, id
LIMIT $2
`

type ListFlightsParams struct {
	After time.Time `json:"after"`
	Limit int32     `json:"limit"`
}

func (q *Queries) ListFlights(ctx context.Context, arg ListFlightsParams) ([]Flight, error) {
	rows, err := q.db.QueryContext(ctx, listFlights, arg.After, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanFlights(rows)
}

const searchFlights = `-- name: SearchFlights :many
SELECT id, number, airline, origin, destination, depart_at, arrive_at, fare_vnd, amenities
FROM flights
WHERE origin = $1
  AND destination = $2
  AND depart_at >= $3
  AND depart_at < $4
ORDER BY depart_at, fare_vnd
`

type SearchFlightsParams struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartFrom  time.Time `json:"depart_from"`
	DepartTo    time.Time `json:"depart_to"`
}

func (q *Queries) SearchFlights(ctx context.Context, arg SearchFlightsParams) ([]Flight, error) {
	rows, err := q.db.QueryContext(ctx, searchFlights,
		arg.Origin,
		arg.Destination,
		arg.DepartFrom,
		arg.DepartTo,
	)
	if err != nil {
		return nil, err
	}
	return scanFlights(rows)
}

const listPlaces = `-- name: ListPlaces :many
SELECT id, city, country, code, image_key, position
FROM places
ORDER BY position, city
`

func (q *Queries) ListPlaces(ctx context.Context) ([]Place, error) {
	rows, err := q.db.QueryContext(ctx, listPlaces)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Place
	for rows.Next() {
		var i Place
		if err := rows.Scan(
			&i.ID,
			&i.City,
			&i.Country,
			&i.Code,
			&i.ImageKey,
			&i.Position,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
