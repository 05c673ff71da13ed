package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/cache"
	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/repository"
)

var ict = domain.Timezone

func newTestFlightService(t *testing.T, q *fakeQueries) *flightService {
	t.Helper()
	mc := cache.NewMemoryCache(&cache.Config{DefaultTTL: time.Minute, Prefix: "test:"})
	t.Cleanup(func() { mc.Close() })
	return NewFlightService(q, mc, time.Minute, testLogger()).(*flightService)
}

func flightRow(id int64, origin, dest string, depart time.Time) repository.Flight {
	return repository.Flight{
		ID:          id,
		Number:      "VN" + string(rune('0'+id)),
		Airline:     "Vietnam Airlines",
		Origin:      origin,
		Destination: dest,
		DepartAt:    depart,
		ArriveAt:    depart.Add(2 * time.Hour),
		FareVnd:     1500000,
	}
}

func TestFlightService_DealsAreCached(t *testing.T) {
	q := newFakeQueries()
	q.deals = []repository.ListDealsRow{{
		ID: 1, Number: "VJ122", Origin: "SGN", Destination: "DAD",
		DepartAt:        time.Date(2024, 6, 1, 6, 0, 0, 0, ict),
		ArriveAt:        time.Date(2024, 6, 1, 7, 20, 0, 0, ict),
		FareVnd:         990000,
		Amenities:       []string{"meal"},
		DiscountPercent: 25,
	}}
	s := newTestFlightService(t, q)
	ctx := context.Background()

	first, err := s.Deals(ctx)
	require.NoError(t, err)
	second, err := s.Deals(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, q.calls["ListDeals"])
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Flight.Number, second[0].Flight.Number)
	assert.Equal(t, int64(742000), second[0].SalePrice())
	assert.True(t, first[0].Flight.DepartAt.Equal(second[0].Flight.DepartAt))
	assert.Equal(t, []string{"meal"}, second[0].Flight.Amenities)
}

func TestFlightService_PlacesErrorIsInternalAndNotCached(t *testing.T) {
	q := newFakeQueries()
	q.err = errors.New("connection refused")
	s := newTestFlightService(t, q)
	ctx := context.Background()

	_, err := s.Places(ctx)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))

	q.err = nil
	q.places = []repository.Place{{ID: 1, City: "Đà Nẵng", Code: "DAD"}}

	places, err := s.Places(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DAD", places[0].Code)
	assert.Equal(t, 2, q.calls["ListPlaces"])
}

func TestFlightService_SearchUsesLocalDay(t *testing.T) {
	q := newFakeQueries()
	q.flights[1] = flightRow(1, "HAN", "SGN", time.Date(2024, 5, 1, 23, 30, 0, 0, ict))
	q.flights[2] = flightRow(2, "HAN", "SGN", time.Date(2024, 5, 2, 0, 30, 0, 0, ict))
	q.flights[3] = flightRow(3, "HAN", "SGN", time.Date(2024, 5, 1, 0, 0, 0, 0, ict))
	q.flights[4] = flightRow(4, "HAN", "DAD", time.Date(2024, 5, 1, 9, 0, 0, 0, ict))
	s := newTestFlightService(t, q)

	got, err := s.Search(context.Background(), domain.SearchForm{
		Origin: "HAN", Destination: "SGN", DepartDate: "2024-05-01",
	})
	require.NoError(t, err)

	ids := make([]int64, len(got))
	for i, f := range got {
		ids[i] = f.ID
	}
	assert.Equal(t, []int64{3, 1}, ids)
	assert.Equal(t, ict, got[0].DepartAt.Location())
}

func TestFlightService_SearchValidatesFirst(t *testing.T) {
	q := newFakeQueries()
	s := newTestFlightService(t, q)

	_, err := s.Search(context.Background(), domain.SearchForm{Origin: "HAN"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, q.calls["SearchFlights"])
}

func TestFlightService_AllReturnsUpcoming(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, ict)
	q := newFakeQueries()
	q.flights[1] = flightRow(1, "HAN", "SGN", now.Add(-time.Hour))
	q.flights[2] = flightRow(2, "SGN", "DAD", now.Add(48*time.Hour))
	q.flights[3] = flightRow(3, "DAD", "HAN", now.Add(24*time.Hour))
	s := newTestFlightService(t, q)
	s.now = func() time.Time { return now }

	got, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.NotNil(t, got[0].Amenities)
}

func TestFlightService_GetNotFound(t *testing.T) {
	s := newTestFlightService(t, newFakeQueries())

	_, err := s.Get(context.Background(), 42)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}
