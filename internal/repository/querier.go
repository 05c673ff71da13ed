package repository

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	// ClaimJob marks the next due pending job running and returns it.
	ClaimJob(ctx context.Context) (Job, error)
	CountPostsByCategory(ctx context.Context, category string) (int64, error)
	CreateBooking(ctx context.Context, arg CreateBookingParams) (Booking, error)
	EnqueueJob(ctx context.Context, arg EnqueueJobParams) (Job, error)
	GetBooking(ctx context.Context, id uuid.UUID) (Booking, error)
	GetFlight(ctx context.Context, id int64) (Flight, error)
	ListDeals(ctx context.Context) ([]ListDealsRow, error)
	ListFlights(ctx context.Context, arg ListFlightsParams) ([]Flight, error)
	ListPlaces(ctx context.Context) ([]Place, error)
	ListPostsByCategory(ctx context.Context, arg ListPostsByCategoryParams) ([]Post, error)
	RecoverStaleJobs(ctx context.Context, thresholdSeconds float64) (int64, error)
	SearchFlights(ctx context.Context, arg SearchFlightsParams) ([]Flight, error)
	UpdateBookingStatus(ctx context.Context, arg UpdateBookingStatusParams) (Booking, error)
	UpdateJobCompleted(ctx context.Context, id uuid.UUID) error
	UpdateJobFailed(ctx context.Context, arg UpdateJobFailedParams) error
}

var _ Querier = (*Queries)(nil)
