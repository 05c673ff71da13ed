// Package service contains the business logic behind the HTTP handlers.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/DukeRupert/skybooker/internal/cache"
	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/metrics"
	"github.com/DukeRupert/skybooker/internal/repository"
)

const (
	dealsCacheKey  = "deals"
	placesCacheKey = "places"

	// allFlightsLimit bounds the "see all flights" list.
	allFlightsLimit = 100
)

// FlightService defines the read operations behind the flights page.
type FlightService interface {
	// Deals returns the discounted fares shown in the FlightDeals section.
	Deals(ctx context.Context) ([]domain.Deal, error)

	// Places returns the popular destinations.
	Places(ctx context.Context) ([]domain.Place, error)

	// All returns every upcoming flight, soonest first.
	All(ctx context.Context) ([]domain.Flight, error)

	// Search returns flights on the form's route leaving on its departure day.
	Search(ctx context.Context, form domain.SearchForm) ([]domain.Flight, error)

	// Get returns one flight.
	Get(ctx context.Context, id int64) (*domain.Flight, error)
}

type flightService struct {
	queries  repository.Querier
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewFlightService creates a FlightService. Deals and places are cached in c
// for ttl.
func NewFlightService(queries repository.Querier, c cache.Cache, ttl time.Duration, logger *slog.Logger) FlightService {
	return &flightService{
		queries:  queries,
		cache:    c,
		cacheTTL: ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *flightService) Deals(ctx context.Context) ([]domain.Deal, error) {
	const op = "FlightService.Deals"

	return cached(ctx, s, dealsCacheKey, func() ([]domain.Deal, error) {
		rows, err := s.queries.ListDeals(ctx)
		if err != nil {
			s.logger.Error("failed to list deals", "error", err, "op", op)
			return nil, domain.Internal(err, op, "Failed to load deals")
		}
		deals := make([]domain.Deal, len(rows))
		for i, row := range rows {
			deals[i] = repoDealToDomain(row)
		}
		return deals, nil
	})
}

func (s *flightService) Places(ctx context.Context) ([]domain.Place, error) {
	const op = "FlightService.Places"

	return cached(ctx, s, placesCacheKey, func() ([]domain.Place, error) {
		rows, err := s.queries.ListPlaces(ctx)
		if err != nil {
			s.logger.Error("failed to list places", "error", err, "op", op)
			return nil, domain.Internal(err, op, "Failed to load places")
		}
		places := make([]domain.Place, len(rows))
		for i, row := range rows {
			places[i] = repoPlaceToDomain(row)
		}
		return places, nil
	})
}

func (s *flightService) All(ctx context.Context) ([]domain.Flight, error) {
	const op = "FlightService.All"

	rows, err := s.queries.ListFlights(ctx, repository.ListFlightsParams{
		After: s.now(),
		Limit: allFlightsLimit,
	})
	if err != nil {
		s.logger.Error("failed to list flights", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to load flights")
	}

	return repoFlightsToDomain(rows), nil
}

func (s *flightService) Search(ctx context.Context, form domain.SearchForm) ([]domain.Flight, error) {
	const op = "FlightService.Search"

	if err := form.Validate(); err != nil {
		return nil, err
	}

	day := form.DepartDay()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, domain.Timezone)

	rows, err := s.queries.SearchFlights(ctx, repository.SearchFlightsParams{
		Origin:      form.Origin,
		Destination: form.Destination,
		DepartFrom:  from,
		DepartTo:    from.AddDate(0, 0, 1),
	})
	if err != nil {
		s.logger.Error("failed to search flights", "error", err, "op", op,
			"origin", form.Origin, "destination", form.Destination, "date", form.DepartDate)
		return nil, domain.Internal(err, op, "Failed to search flights")
	}

	return repoFlightsToDomain(rows), nil
}

func (s *flightService) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	const op = "FlightService.Get"

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

// cached serves key from the read-model cache, falling back to load and
// storing its result. Cache failures are logged and never surface.
func cached[T any](ctx context.Context, s *flightService, key string, load func() (T, error)) (T, error) {
	var out T

	err := cache.GetJSON(ctx, s.cache, key, &out)
	switch {
	case err == nil:
		metrics.CacheHit(key)
		return out, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.CacheMiss(key)
	default:
		metrics.CacheMiss(key)
		s.logger.Warn("cache read failed", "error", err, "key", key)
	}

	out, err = load()
	if err != nil {
		return out, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, out, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", "error", err, "key", key)
	}
	return out, nil
}
