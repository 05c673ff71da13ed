package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/csrf"
	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/middleware"
	"github.com/DukeRupert/skybooker/internal/templ/components"
	"github.com/DukeRupert/skybooker/internal/templ/pages/bookings"
)

const testToken = "test-csrf-token"

type bookingFixture struct {
	mux      *http.ServeMux
	bookings *fakeBookingService
	booking  *domain.Booking
}

func newBookingFixture(t *testing.T, limit func(http.Handler) http.Handler) bookingFixture {
	t.Helper()
	flight := sampleFlight(7)
	booking := &domain.Booking{
		ID:        uuid.MustParse("0b6f3c2e-8d7a-4f5b-9c1d-2e3f4a5b6c7d"),
		FlightID:  flight.ID,
		Passenger: domain.Passenger{FullName: "Nguyễn Văn A", Email: "a@example.vn"},
		Status:    domain.BookingStatusPending,
		Flight:    &flight,
	}
	bs := &fakeBookingService{booking: booking}
	fs := &fakeFlightService{flight: &flight}

	mux := http.NewServeMux()
	NewBookingHandler(bs, fs, testRenderer(t), testLogger(), false).
		RegisterRoutes(mux, csrf.Protect(testLogger()), limit)

	return bookingFixture{mux: mux, bookings: bs, booking: booking}
}

func (f bookingFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func csrfPost(target string, values url.Values) *http.Request {
	values.Set(csrf.FormFieldName, testToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: testToken})
	return req
}

func TestBookingHandler_New(t *testing.T) {
	f := newBookingFixture(t, passthrough)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/bookings/new?flight=7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="flight_id"`)
	assert.Contains(t, rec.Body.String(), `name="`+csrf.FormFieldName+`"`)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), csrf.CookieName+"=")

	rec = f.do(httptest.NewRequest(http.MethodGet, "/bookings/new?flight=99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/bookings/new?flight=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingHandler_CreateRequiresCSRF(t *testing.T) {
	f := newBookingFixture(t, passthrough)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("flight_id=7"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.bookings.created)
}

func TestBookingHandler_Create(t *testing.T) {
	f := newBookingFixture(t, passthrough)

	rec := f.do(csrfPost("/bookings", url.Values{
		"flight_id": {"7"},
		"full_name": {"Nguyễn Văn A"},
		"email":     {"a@example.vn"},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/bookings/"+f.booking.ID.String()+"/confirm", rec.Header().Get("Location"))
	require.Len(t, f.bookings.created, 1)
	assert.Equal(t, int64(7), f.bookings.created[0].FlightID)
}

func TestBookingHandler_CreateInvalidPassenger(t *testing.T) {
	f := newBookingFixture(t, passthrough)

	rec := f.do(csrfPost("/bookings", url.Values{
		"flight_id": {"7"},
		"full_name": {"Nguyễn Văn A"},
		"email":     {"not-an-email"},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Vui lòng nhập email hợp lệ")
	assert.Contains(t, body, `value="not-an-email"`)
}

func TestBookingHandler_CreateRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Hour, testLogger())
	t.Cleanup(limiter.Close)
	f := newBookingFixture(t, middleware.NewRateLimitMiddleware(limiter, testLogger(), ErrorResponder(testLogger())).Limit)

	values := url.Values{"flight_id": {"7"}, "full_name": {"A"}, "email": {"a@example.vn"}}
	first := f.do(csrfPost("/bookings", values))
	second := f.do(csrfPost("/bookings", values))

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "Bạn thao tác quá nhanh")
	assert.Len(t, f.bookings.created, 1)
}

func TestBookingHandler_ReviewModalVisibility(t *testing.T) {
	f := newBookingFixture(t, passthrough)
	base := "/bookings/" + f.booking.ID.String()

	closed := f.do(httptest.NewRequest(http.MethodGet, base, nil))
	require.Equal(t, http.StatusOK, closed.Code)
	assert.NotContains(t, closed.Body.String(), `data-component="final-confirm"`)
	assert.Contains(t, closed.Body.String(), f.booking.Reference())

	open := f.do(httptest.NewRequest(http.MethodGet, base+"/confirm", nil))
	require.Equal(t, http.StatusOK, open.Code)
	body := open.Body.String()
	assert.Contains(t, body, `data-component="final-confirm"`)
	assert.Contains(t, body, components.FinalConfirmCancelLabel)
	assert.Contains(t, body, components.FinalConfirmConfirmLabel)
	assert.Contains(t, body, "VN213")

	// A confirmed booking never shows the modal again.
	f.booking.Status = domain.BookingStatusConfirmed
	again := f.do(httptest.NewRequest(http.MethodGet, base+"/confirm", nil))
	assert.NotContains(t, again.Body.String(), `data-component="final-confirm"`)

	missing := f.do(httptest.NewRequest(http.MethodGet, "/bookings/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestBookingHandler_ConfirmActions(t *testing.T) {
	tests := []struct {
		action       string
		wantStatus   int
		wantConfirms int
		wantCancels  int
		wantLocation string
	}{
		{components.ConfirmActionConfirm, http.StatusSeeOther, 1, 0, "?done=confirmed"},
		{components.ConfirmActionCancel, http.StatusSeeOther, 0, 0, ""},
		{"maybe", http.StatusBadRequest, 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			f := newBookingFixture(t, passthrough)
			target := "/bookings/" + f.booking.ID.String() + "/confirm"

			rec := f.do(csrfPost(target, url.Values{"action": {tt.action}}))

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantConfirms, f.bookings.confirms)
			assert.Equal(t, tt.wantCancels, f.bookings.cancels)
			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/bookings/"+f.booking.ID.String()+tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}

func TestBookingHandler_CloseKeepsBookingPending(t *testing.T) {
	f := newBookingFixture(t, passthrough)
	base := "/bookings/" + f.booking.ID.String()

	rec := f.do(csrfPost(base+"/confirm", url.Values{"action": {components.ConfirmActionCancel}}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domain.BookingStatusPending, f.booking.Status)

	review := f.do(httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil))
	require.Equal(t, http.StatusOK, review.Code)
	body := review.Body.String()
	assert.NotContains(t, body, `data-component="final-confirm"`)
	assert.Contains(t, body, `action="`+base+`/cancel"`)
	assert.Contains(t, body, bookings.CancelBookingLabel)
}

func TestBookingHandler_Cancel(t *testing.T) {
	f := newBookingFixture(t, passthrough)
	target := "/bookings/" + f.booking.ID.String() + "/cancel"

	rec := f.do(csrfPost(target, url.Values{}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/bookings/"+f.booking.ID.String()+"?done=cancelled", rec.Header().Get("Location"))
	assert.Equal(t, 1, f.bookings.cancels)
	assert.Equal(t, domain.BookingStatusCancelled, f.booking.Status)

	// Cancelled bookings offer neither action.
	review := f.do(httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil))
	assert.Contains(t, review.Body.String(), "Đã huỷ đặt chỗ")
	assert.NotContains(t, review.Body.String(), bookings.CancelBookingLabel)
}

func TestBookingHandler_CancelRequiresCSRF(t *testing.T) {
	f := newBookingFixture(t, passthrough)

	req := httptest.NewRequest(http.MethodPost, "/bookings/"+f.booking.ID.String()+"/cancel", nil)
	rec := f.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, f.bookings.cancels)
}

func TestBookingHandler_ConfirmTwiceConflicts(t *testing.T) {
	f := newBookingFixture(t, passthrough)
	target := "/bookings/" + f.booking.ID.String() + "/confirm"

	require.Equal(t, http.StatusSeeOther, f.do(csrfPost(target, url.Values{"action": {"confirm"}})).Code)
	rec := f.do(csrfPost(target, url.Values{"action": {"confirm"}}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.BookingStatusConfirmed, f.booking.Status)
}

func TestBookingHandler_ShowOutcomeFlash(t *testing.T) {
	f := newBookingFixture(t, passthrough)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/bookings/"+f.booking.ID.String()+"?done=confirmed", nil))

	assert.Contains(t, rec.Body.String(), "Đặt vé thành công")
}
