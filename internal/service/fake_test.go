package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/DukeRupert/skybooker/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeQueries is an in-memory repository.Querier.
type fakeQueries struct {
	mu sync.Mutex

	flights  map[int64]repository.Flight
	deals    []repository.ListDealsRow
	places   []repository.Place
	bookings map[uuid.UUID]repository.Booking
	posts    []repository.Post

	err   error // returned by every call when set
	calls map[string]int

	// beforeUpdate runs inside UpdateBookingStatus before the status check.
	beforeUpdate func(b *repository.Booking)
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		flights:  make(map[int64]repository.Flight),
		bookings: make(map[uuid.UUID]repository.Booking),
		calls:    make(map[string]int),
	}
}

var _ repository.Querier = (*fakeQueries)(nil)

func (f *fakeQueries) record(name string) error {
	f.calls[name]++
	return f.err
}

func (f *fakeQueries) CountPostsByCategory(ctx context.Context, category string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CountPostsByCategory"); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range f.posts {
		if p.Category == category {
			n++
		}
	}
	return n, nil
}

func (f *fakeQueries) CreateBooking(ctx context.Context, arg repository.CreateBookingParams) (repository.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateBooking"); err != nil {
		return repository.Booking{}, err
	}
	b := repository.Booking{
		ID:        arg.ID,
		FlightID:  arg.FlightID,
		Passenger: arg.Passenger,
		Status:    arg.Status,
	}
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeQueries) GetBooking(ctx context.Context, id uuid.UUID) (repository.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetBooking"); err != nil {
		return repository.Booking{}, err
	}
	b, ok := f.bookings[id]
	if !ok {
		return repository.Booking{}, sql.ErrNoRows
	}
	return b, nil
}

func (f *fakeQueries) GetFlight(ctx context.Context, id int64) (repository.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetFlight"); err != nil {
		return repository.Flight{}, err
	}
	fl, ok := f.flights[id]
	if !ok {
		return repository.Flight{}, sql.ErrNoRows
	}
	return fl, nil
}

func (f *fakeQueries) ListDeals(ctx context.Context) ([]repository.ListDealsRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListDeals"); err != nil {
		return nil, err
	}
	return f.deals, nil
}

func (f *fakeQueries) ListFlights(ctx context.Context, arg repository.ListFlightsParams) ([]repository.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListFlights"); err != nil {
		return nil, err
	}
	var out []repository.Flight
	for _, fl := range f.flights {
		if fl.DepartAt.After(arg.After) {
			out = append(out, fl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartAt.Before(out[j].DepartAt) })
	if len(out) > int(arg.Limit) {
		out = out[:arg.Limit]
	}
	return out, nil
}

func (f *fakeQueries) ListPlaces(ctx context.Context) ([]repository.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListPlaces"); err != nil {
		return nil, err
	}
	return f.places, nil
}

func (f *fakeQueries) ListPostsByCategory(ctx context.Context, arg repository.ListPostsByCategoryParams) ([]repository.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListPostsByCategory"); err != nil {
		return nil, err
	}
	var matching []repository.Post
	for _, p := range f.posts {
		if p.Category == arg.Category {
			matching = append(matching, p)
		}
	}
	start := int(arg.Offset)
	if start > len(matching) {
		return nil, nil
	}
	end := start + int(arg.Limit)
	if end > len(matching) {
		end = len(matching)
	}
	return matching[start:end], nil
}

func (f *fakeQueries) SearchFlights(ctx context.Context, arg repository.SearchFlightsParams) ([]repository.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SearchFlights"); err != nil {
		return nil, err
	}
	var out []repository.Flight
	for _, fl := range f.flights {
		if fl.Origin == arg.Origin && fl.Destination == arg.Destination &&
			!fl.DepartAt.Before(arg.DepartFrom) && fl.DepartAt.Before(arg.DepartTo) {
			out = append(out, fl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartAt.Before(out[j].DepartAt) })
	return out, nil
}

func (f *fakeQueries) UpdateBookingStatus(ctx context.Context, arg repository.UpdateBookingStatusParams) (repository.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateBookingStatus"); err != nil {
		return repository.Booking{}, err
	}
	b, ok := f.bookings[arg.ID]
	if ok && f.beforeUpdate != nil {
		f.beforeUpdate(&b)
	}
	if !ok || b.Status != arg.FromStatus {
		return repository.Booking{}, sql.ErrNoRows
	}
	b.Status = arg.Status
	b.ConfirmedAt = arg.ConfirmedAt
	f.bookings[arg.ID] = b
	return b, nil
}

// The job queue is driven by the worker package; services never touch it.

func (f *fakeQueries) ClaimJob(ctx context.Context) (repository.Job, error) {
	return repository.Job{}, sql.ErrNoRows
}

func (f *fakeQueries) EnqueueJob(ctx context.Context, arg repository.EnqueueJobParams) (repository.Job, error) {
	return repository.Job{ID: arg.ID, JobType: arg.JobType, Payload: arg.Payload, Status: "pending"}, nil
}

func (f *fakeQueries) RecoverStaleJobs(ctx context.Context, thresholdSeconds float64) (int64, error) {
	return 0, nil
}

func (f *fakeQueries) UpdateJobCompleted(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeQueries) UpdateJobFailed(ctx context.Context, arg repository.UpdateJobFailedParams) error {
	return nil
}
