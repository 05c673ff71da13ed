package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/service"
	"github.com/DukeRupert/skybooker/internal/templ/components"
	"github.com/DukeRupert/skybooker/internal/templ/pages/flights"
)

const (
	// PromoImageKey is the stored artwork of the CardNext promo.
	PromoImageKey = "promo/card-next.jpg"

	dateAction       = "/search/date"
	fullFlightsRoute = "/flights/all"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// FlightHandler serves the flights landing page and its htmx interactions.
type FlightHandler struct {
	flights  service.FlightService
	assets   service.AssetService
	renderer *Renderer
	logger   *slog.Logger
}

// NewFlightHandler creates a new FlightHandler.
func NewFlightHandler(
	flightService service.FlightService,
	assetService service.AssetService,
	renderer *Renderer,
	logger *slog.Logger,
) *FlightHandler {
	return &FlightHandler{
		flights:  flightService,
		assets:   assetService,
		renderer: renderer,
		logger:   logger,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the flight routes with the provided mux.
//
// Routes:
// - GET  /               -> Index
// - POST /search/date    -> ChangeDate (DateInput change)
// - GET  /flights/search -> Search
// - GET  /flights/all    -> All (GetFullFlights press)
func (h *FlightHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /search/date", h.ChangeDate)
	mux.HandleFunc("GET /flights/search", h.Search)
	mux.HandleFunc("GET /flights/all", h.All)
}

// =============================================================================
// GET / - Flights Page
// =============================================================================

// Index renders Hero, FlightDeals and Places.
func (h *FlightHandler) Index(w http.ResponseWriter, r *http.Request) {
	deals, err := h.flights.Deals(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	places, err := h.flights.Places(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := flights.PageData{
		Hero: h.hero(domain.SearchForm{}, nil),
		Deals: flights.DealsData{
			Deals:       dealViews(deals),
			FullFlights: fullFlightsProps(nil),
		},
		Places: flights.PlacesData{Places: h.placeViews(places)},
	}

	h.renderer.RenderPage(w, r, Page{
		Title:   "Vé máy bay giá rẻ",
		Content: flights.Page(data),
	})
}

// =============================================================================
// POST /search/date - DateInput Change
// =============================================================================

// ChangeDate applies a date input change to the search form posted with it
// and re-renders that input with the form's value.
func (h *FlightHandler) ChangeDate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("FlightHandler.ChangeDate", "Dữ liệu biểu mẫu không hợp lệ"))
		return
	}

	field := r.PostForm.Get("field")
	if field != "depart_date" && field != "return_date" {
		ErrorResponse(w, r, h.logger, domain.Invalid("FlightHandler.ChangeDate", "Trường ngày không hợp lệ"))
		return
	}

	form := searchFormFrom(r.PostForm)
	props := components.DateInputProps{
		Name:     field,
		Action:   dateAction,
		OnChange: func(v string) { form.SetField(field, v) },
	}
	props.Change(r.PostForm.Get(field))

	props.Value = dateValue(form, field)
	props.Placeholder = datePlaceholder(field)
	if props.Value != "" {
		props.Error = fieldErrors(form.Validate())[field]
	}

	h.renderer.RenderFragment(w, r, http.StatusOK, components.DateInput(props))
}

// =============================================================================
// GET /flights/search - Search Results
// =============================================================================

// Search lists flights matching the submitted form. Validation errors are
// shown next to the fields rather than as an error page.
func (h *FlightHandler) Search(w http.ResponseWriter, r *http.Request) {
	form := searchFormFrom(r.URL.Query())

	found, err := h.flights.Search(r.Context(), form)
	var ve *domain.ValidationError
	if err != nil && !errors.As(err, &ve) {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	list := flights.ListData{
		Heading: "Chuyến bay " + form.Origin + " → " + form.Destination,
		Flights: flights.ToFlightViews(found),
		Empty:   "Không tìm thấy chuyến bay phù hợp.",
	}
	status := http.StatusOK
	if ve != nil {
		list = flights.ListData{Empty: "Vui lòng kiểm tra lại thông tin tìm kiếm."}
		status = http.StatusUnprocessableEntity
	}

	h.renderer.RenderPage(w, r, Page{
		Title:   "Kết quả tìm kiếm",
		Status:  status,
		Content: flights.SearchResults(h.hero(form, fieldErrors(err)), list),
	})
}

// =============================================================================
// GET /flights/all - GetFullFlights Press
// =============================================================================

// All answers a GetFullFlights press with every upcoming flight, rendered
// into the deals list target.
func (h *FlightHandler) All(w http.ResponseWriter, r *http.Request) {
	var (
		list []domain.Flight
		err  error
	)
	props := fullFlightsProps(func() {
		list, err = h.flights.All(r.Context())
	})
	props.Press()

	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	c := flights.FlightList(flights.ListData{
		Heading: "Tất cả chuyến bay",
		Flights: flights.ToFlightViews(list),
		Empty:   "Hiện chưa có chuyến bay nào.",
	})
	if isHTMX(r) {
		h.renderer.RenderFragment(w, r, http.StatusOK, c)
		return
	}
	h.renderer.RenderPage(w, r, Page{Title: "Tất cả chuyến bay", Content: c})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *FlightHandler) hero(form domain.SearchForm, errs map[string]string) flights.HeroData {
	return flights.HeroData{
		Search:        form,
		Errors:        errs,
		DateAction:    dateAction,
		PromoImageURL: h.assets.ThumbnailURL(PromoImageKey, domain.SizeCard),
	}
}

func (h *FlightHandler) placeViews(places []domain.Place) []flights.PlaceView {
	views := make([]flights.PlaceView, len(places))
	for i, p := range places {
		views[i] = flights.PlaceView{
			City:     p.City,
			Country:  p.Country,
			Code:     p.Code,
			ImageURL: h.assets.ThumbnailURL(p.ImageKey, domain.SizePlace),
		}
	}
	return views
}

func dealViews(deals []domain.Deal) []flights.FlightView {
	views := make([]flights.FlightView, len(deals))
	for i, d := range deals {
		views[i] = flights.ToDealView(d)
	}
	return views
}

func fullFlightsProps(onClick func()) components.GetFullFlightsProps {
	return components.GetFullFlightsProps{
		Action:  fullFlightsRoute,
		Target:  "#" + flights.ListTargetID,
		OnClick: onClick,
	}
}

func searchFormFrom(values url.Values) domain.SearchForm {
	var form domain.SearchForm
	for _, name := range []string{"origin", "destination", "depart_date", "return_date"} {
		form.SetField(name, values.Get(name))
	}
	return form
}

func dateValue(form domain.SearchForm, field string) string {
	if field == "return_date" {
		return form.ReturnDate
	}
	return form.DepartDate
}

func datePlaceholder(field string) string {
	if field == "return_date" {
		return "Ngày về"
	}
	return "Ngày đi"
}

// fieldErrors extracts the field messages of a validation error.
func fieldErrors(err error) map[string]string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
