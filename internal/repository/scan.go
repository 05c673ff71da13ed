package repository

import (
	"database/sql"

	"github.com/lib/pq"
)

func scanFlights(rows *sql.Rows) ([]Flight, error) {
	defer rows.Close()
	var items []Flight
	for rows.Next() {
		var i Flight
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
