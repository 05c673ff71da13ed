package service

import (
	"encoding/json"
	"fmt"

	"github.com/sqlc-dev/pqtype"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/repository"
)

func repoFlightToDomain(f repository.Flight) domain.Flight {
	amenities := f.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return domain.Flight{
		ID:          f.ID,
		Number:      f.Number,
		Airline:     f.Airline,
		Origin:      f.Origin,
		Destination: f.Destination,
		DepartAt:    f.DepartAt.In(domain.Timezone),
		ArriveAt:    f.ArriveAt.In(domain.Timezone),
		FareVND:     f.FareVnd,
		Amenities:   amenities,
	}
}

func repoFlightsToDomain(rows []repository.Flight) []domain.Flight {
	flights := make([]domain.Flight, len(rows))
	for i, row := range rows {
		flights[i] = repoFlightToDomain(row)
	}
	return flights
}

func repoDealToDomain(row repository.ListDealsRow) domain.Deal {
	return domain.Deal{
		Flight: repoFlightToDomain(repository.Flight{
			ID:          row.ID,
			Number:      row.Number,
			Airline:     row.Airline,
			Origin:      row.Origin,
			Destination: row.Destination,
			DepartAt:    row.DepartAt,
			ArriveAt:    row.ArriveAt,
			FareVnd:     row.FareVnd,
			Amenities:   row.Amenities,
		}),
		DiscountPercent: int(row.DiscountPercent),
	}
}

func repoPlaceToDomain(p repository.Place) domain.Place {
	return domain.Place{
		ID:       p.ID,
		City:     p.City,
		Country:  p.Country,
		Code:     p.Code,
		ImageKey: p.ImageKey,
	}
}

func repoBookingToDomain(b repository.Booking) (domain.Booking, error) {
	booking := domain.Booking{
		ID:        b.ID,
		FlightID:  b.FlightID,
		Status:    domain.BookingStatus(b.Status),
		CreatedAt: b.CreatedAt,
	}
	if b.Passenger.Valid {
		if err := json.Unmarshal(b.Passenger.RawMessage, &booking.Passenger); err != nil {
			return domain.Booking{}, fmt.Errorf("decode passenger: %w", err)
		}
	}
	if b.ConfirmedAt.Valid {
		t := b.ConfirmedAt.Time
		booking.ConfirmedAt = &t
	}
	return booking, nil
}

func passengerToNullRawMessage(p domain.Passenger) (pqtype.NullRawMessage, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}
	return pqtype.NullRawMessage{RawMessage: data, Valid: true}, nil
}
