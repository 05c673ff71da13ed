package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/DukeRupert/skybooker/internal/csrf"
	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/service"
	"github.com/DukeRupert/skybooker/internal/templ/components"
	"github.com/DukeRupert/skybooker/internal/templ/pages/bookings"
	"github.com/DukeRupert/skybooker/internal/templ/pages/flights"
	"github.com/DukeRupert/skybooker/internal/templ/shared"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// BookingHandler handles the booking flow: passenger form, review page and
// the final confirmation modal.
type BookingHandler struct {
	bookings service.BookingService
	flights  service.FlightService
	renderer *Renderer
	logger   *slog.Logger
	isSecure bool
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(
	bookingService service.BookingService,
	flightService service.FlightService,
	renderer *Renderer,
	logger *slog.Logger,
	isSecure bool,
) *BookingHandler {
	return &BookingHandler{
		bookings: bookingService,
		flights:  flightService,
		renderer: renderer,
		logger:   logger,
		isSecure: isSecure,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the booking routes with the provided mux.
//
// Unsafe routes pass through protect (CSRF) and creation additionally
// through limit.
//
// Routes:
// - GET  /bookings/new?flight={id} -> New
// - POST /bookings                 -> Create
// - GET  /bookings/{id}            -> Show
// - GET  /bookings/{id}/confirm    -> ShowConfirm (modal open)
// - POST /bookings/{id}/confirm    -> Confirm (modal action)
// - POST /bookings/{id}/cancel     -> Cancel
func (h *BookingHandler) RegisterRoutes(mux *http.ServeMux, protect, limit func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /bookings/new", h.New)
	mux.Handle("POST /bookings", limit(protect(http.HandlerFunc(h.Create))))
	mux.HandleFunc("GET /bookings/{id}", h.Show)
	mux.HandleFunc("GET /bookings/{id}/confirm", h.ShowConfirm)
	mux.Handle("POST /bookings/{id}/confirm", protect(http.HandlerFunc(h.Confirm)))
	mux.Handle("POST /bookings/{id}/cancel", protect(http.HandlerFunc(h.Cancel)))
}

// =============================================================================
// GET /bookings/new - Passenger Form
// =============================================================================

// New renders the passenger form for the flight in the query string.
func (h *BookingHandler) New(w http.ResponseWriter, r *http.Request) {
	flightID, err := strconv.ParseInt(r.URL.Query().Get("flight"), 10, 64)
	if err != nil || flightID <= 0 {
		ErrorResponse(w, r, h.logger, domain.Invalid("BookingHandler.New", "Chuyến bay không hợp lệ"))
		return
	}

	flight, err := h.flights.Get(r.Context(), flightID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderNew(w, r, http.StatusOK, *flight, bookings.FormData{}, nil)
}

// =============================================================================
// POST /bookings - Create Pending Booking
// =============================================================================

// Create stores a pending booking and opens its confirmation modal.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("BookingHandler.Create", "Dữ liệu biểu mẫu không hợp lệ"))
		return
	}

	flightID, err := strconv.ParseInt(r.PostForm.Get("flight_id"), 10, 64)
	if err != nil || flightID <= 0 {
		ErrorResponse(w, r, h.logger, domain.Invalid("BookingHandler.Create", "Chuyến bay không hợp lệ"))
		return
	}

	form := bookings.FormData{
		FullName: r.PostForm.Get("full_name"),
		Email:    r.PostForm.Get("email"),
		Phone:    r.PostForm.Get("phone"),
	}

	booking, err := h.bookings.Create(r.Context(), domain.CreateBookingParams{
		FlightID: flightID,
		Passenger: domain.Passenger{
			FullName: form.FullName,
			Email:    form.Email,
			Phone:    form.Phone,
		},
	})
	if err != nil {
		errs := fieldErrors(err)
		if errs == nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
		flight, ferr := h.flights.Get(r.Context(), flightID)
		if ferr != nil {
			ErrorResponse(w, r, h.logger, ferr)
			return
		}
		h.renderNew(w, r, http.StatusUnprocessableEntity, *flight, form, errs)
		return
	}

	h.redirect(w, r, confirmURL(booking.ID))
}

// =============================================================================
// GET /bookings/{id} and /bookings/{id}/confirm - Review
// =============================================================================

// Show renders the booking with the confirmation modal closed.
func (h *BookingHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false, outcomeFlash(r.URL.Query().Get("done")))
}

// ShowConfirm renders the booking with the confirmation modal open. Only
// pending bookings can be confirmed; others fall back to Show.
func (h *BookingHandler) ShowConfirm(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true, nil)
}

func (h *BookingHandler) review(w http.ResponseWriter, r *http.Request, open bool, flash *shared.Flash) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	booking, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderer.RenderPage(w, r, Page{
		Title:   "Đặt chỗ " + booking.Reference(),
		Flash:   flash,
		Content: bookings.ReviewPage(reviewData(booking, open && booking.IsPending(), token)),
	})
}

// =============================================================================
// POST /bookings/{id}/confirm - FinalConfirm Action
// =============================================================================

// Confirm applies the modal's action: confirm finalizes the booking, cancel
// only closes the modal and leaves the booking pending.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("BookingHandler.Confirm", "Dữ liệu biểu mẫu không hợp lệ"))
		return
	}

	var err error
	next := bookingURL(id)
	props := components.FinalConfirmProps{
		IsOpen:  true,
		OnClose: func() {},
		OnConfirm: func() {
			_, err = h.bookings.Confirm(r.Context(), id)
			next = doneURL(id, domain.BookingStatusConfirmed)
		},
	}
	if herr := props.Handle(r.PostForm.Get("action")); herr != nil {
		ErrorResponse(w, r, h.logger, herr)
		return
	}
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.redirect(w, r, next)
}

// =============================================================================
// POST /bookings/{id}/cancel - Withdraw Pending Booking
// =============================================================================

// Cancel withdraws a pending booking.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	if _, err := h.bookings.Cancel(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.redirect(w, r, doneURL(id, domain.BookingStatusCancelled))
}

// =============================================================================
// Helpers
// =============================================================================

func (h *BookingHandler) renderNew(w http.ResponseWriter, r *http.Request, status int, flight domain.Flight, form bookings.FormData, errs map[string]string) {
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderer.RenderPage(w, r, Page{
		Title:  "Thông tin hành khách",
		Status: status,
		Content: bookings.NewPage(bookings.NewPageData{
			Flight:    flights.ToFlightView(flight),
			Form:      form,
			Errors:    errs,
			CSRFToken: token,
		}),
	})
}

func (h *BookingHandler) bookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		NotFoundResponse(w, r, h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// redirect sends the browser to url, via HX-Redirect for htmx requests.
func (h *BookingHandler) redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// outcomeFlash is the banner shown after the modal closed.
func outcomeFlash(done string) *shared.Flash {
	switch done {
	case domain.BookingStatusConfirmed.String():
		return &shared.Flash{Type: shared.FlashSuccess, Message: "Đặt vé thành công. Cảm ơn bạn!"}
	case domain.BookingStatusCancelled.String():
		return &shared.Flash{Type: shared.FlashInfo, Message: "Đã huỷ đặt chỗ."}
	}
	return nil
}

func bookingURL(id uuid.UUID) string {
	return "/bookings/" + id.String()
}

func confirmURL(id uuid.UUID) string {
	return bookingURL(id) + "/confirm"
}

func cancelURL(id uuid.UUID) string {
	return bookingURL(id) + "/cancel"
}

// doneURL shows the booking with the outcome banner for status.
func doneURL(id uuid.UUID, status domain.BookingStatus) string {
	return bookingURL(id) + "?done=" + status.String()
}

func reviewData(b *domain.Booking, open bool, token string) bookings.ReviewPageData {
	var fv flights.FlightView
	summary := ""
	if b.Flight != nil {
		fv = flights.ToFlightView(*b.Flight)
		summary = fmt.Sprintf("%s · %s · %s %s · %s", fv.Number, fv.Route, fv.DepartDate, fv.DepartTime, fv.Fare)
	}

	return bookings.ReviewPageData{
		Reference: b.Reference(),
		Status:    b.Status.String(),
		Passenger: bookings.FormData{
			FullName: b.Passenger.FullName,
			Email:    b.Passenger.Email,
			Phone:    b.Passenger.Phone,
		},
		Flight:     fv,
		ConfirmURL: confirmURL(b.ID),
		CancelURL:  cancelURL(b.ID),
		CSRFToken:  token,
		Pending:    b.IsPending(),
		Confirm: components.FinalConfirmProps{
			IsOpen:    open,
			Summary:   summary,
			Action:    confirmURL(b.ID),
			CSRFToken: token,
		},
	}
}
