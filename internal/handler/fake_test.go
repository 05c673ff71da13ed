package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/navigation"
	"github.com/DukeRupert/skybooker/internal/storage"
	"github.com/DukeRupert/skybooker/internal/theme"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	categories, err := navigation.Default()
	require.NoError(t, err)
	return NewRenderer(theme.Default(), categories, testLogger())
}

func sampleFlight(id int64) domain.Flight {
	depart := time.Date(2030, 5, 1, 8, 15, 0, 0, domain.Timezone)
	return domain.Flight{
		ID:          id,
		Number:      "VN213",
		Airline:     "Vietnam Airlines",
		Origin:      "HAN",
		Destination: "SGN",
		DepartAt:    depart,
		ArriveAt:    depart.Add(2*time.Hour + 10*time.Minute),
		FareVND:     1890000,
		Amenities:   []string{},
	}
}

// fakeFlightService serves canned data.
type fakeFlightService struct {
	deals    []domain.Deal
	places   []domain.Place
	all      []domain.Flight
	found    []domain.Flight
	flight   *domain.Flight
	err      error
	allCalls int
	searched []domain.SearchForm
}

func (f *fakeFlightService) Deals(ctx context.Context) ([]domain.Deal, error) {
	return f.deals, f.err
}

func (f *fakeFlightService) Places(ctx context.Context) ([]domain.Place, error) {
	return f.places, f.err
}

func (f *fakeFlightService) All(ctx context.Context) ([]domain.Flight, error) {
	f.allCalls++
	return f.all, f.err
}

func (f *fakeFlightService) Search(ctx context.Context, form domain.SearchForm) ([]domain.Flight, error) {
	f.searched = append(f.searched, form)
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return f.found, f.err
}

func (f *fakeFlightService) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	if f.flight == nil || f.flight.ID != id {
		return nil, domain.NotFound("fake", "flight", "")
	}
	return f.flight, nil
}

// fakeBookingService records lifecycle calls against one booking.
type fakeBookingService struct {
	booking   *domain.Booking
	createErr error
	created   []domain.CreateBookingParams
	confirms  int
	cancels   int
}

func (f *fakeBookingService) Create(ctx context.Context, params domain.CreateBookingParams) (*domain.Booking, error) {
	f.created = append(f.created, params)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if err := params.Passenger.Validate(); err != nil {
		return nil, err
	}
	return f.booking, nil
}

func (f *fakeBookingService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, domain.NotFound("fake", "booking", id.String())
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingService) Confirm(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	f.confirms++
	return f.transition(id, domain.BookingStatusConfirmed)
}

func (f *fakeBookingService) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	f.cancels++
	return f.transition(id, domain.BookingStatusCancelled)
}

func (f *fakeBookingService) transition(id uuid.UUID, target domain.BookingStatus) (*domain.Booking, error) {
	b, err := f.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if err := b.TransitionTo(target); err != nil {
		return nil, err
	}
	f.booking.Status = b.Status
	return b, nil
}

// fakePostService returns one page of canned posts.
type fakePostService struct {
	list      *domain.PostList
	requested []string
}

func (f *fakePostService) ListByCategory(ctx context.Context, categoryID string, page, perPage int) (*domain.PostList, error) {
	f.requested = append(f.requested, categoryID)
	if f.list == nil {
		return &domain.PostList{Page: 1, PerPage: perPage}, nil
	}
	return f.list, nil
}

// fakeAssetService serves in-memory objects.
type fakeAssetService struct {
	objects map[string][]byte
}

func (f *fakeAssetService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, domain.NotFound("fake", "asset", key)
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: storage.ContentTypeForKey(key),
	}, nil
}

func (f *fakeAssetService) Thumbnail(ctx context.Context, key string, size domain.ImageSize) (io.ReadCloser, storage.ObjectInfo, error) {
	return f.Open(ctx, storage.ThumbnailKey(key, size.Width, size.Height))
}

func (f *fakeAssetService) ThumbnailURL(key string, size domain.ImageSize) string {
	if key == "" {
		return ""
	}
	return "/thumbs/" + size.String() + "/" + key
}

func (f *fakeAssetService) Unrendered(ctx context.Context, keys []string, sizes []domain.ImageSize) ([]string, error) {
	return keys, nil
}

func passthrough(next http.Handler) http.Handler { return next }
