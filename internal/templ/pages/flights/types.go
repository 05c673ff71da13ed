// Package flights renders the flights landing page and its sections.
package flights

import (
	"fmt"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/templ/components"
	"github.com/DukeRupert/skybooker/internal/templ/shared"
)

// Section markers, in render order.
const (
	SectionHero   = "hero"
	SectionDeals  = "flight-deals"
	SectionPlaces = "places"
)

// ListTargetID is the element GetFullFlights swaps the full list into.
const ListTargetID = "flight-list"

// PageData contains data for the flights landing page.
type PageData struct {
	Hero   HeroData
	Deals  DealsData
	Places PlacesData
}

// HeroData contains the search form state and the promo card.
type HeroData struct {
	Search        domain.SearchForm
	Errors        map[string]string // Field-level search errors
	DateAction    string            // Endpoint date inputs post changes to
	PromoImageURL string
}

func (d HeroData) dateProps(name, placeholder, value string) components.DateInputProps {
	return components.DateInputProps{
		Name:        name,
		Value:       value,
		Placeholder: placeholder,
		Error:       d.Errors[name],
		Action:      d.DateAction,
	}
}

// DealsData contains discounted fares and the "see all" button.
type DealsData struct {
	Deals       []FlightView
	FullFlights components.GetFullFlightsProps
}

// PlacesData contains popular destinations.
type PlacesData struct {
	Places []PlaceView
}

// FlightView is a flight formatted for display.
type FlightView struct {
	ID         int64
	Number     string
	Airline    string
	Route      string
	DepartDate string
	DepartTime string
	ArriveTime string
	Duration   string
	Fare       string // Base fare
	SalePrice  string // Discounted fare (deals only)
	Discount   int    // Percent (deals only)
	Amenities  []string
	BookURL    string
}

// PlaceView is a destination formatted for display.
type PlaceView struct {
	City     string
	Country  string
	Code     string
	ImageURL string
}

// ListData contains a list of flights rendered into the flight list target.
type ListData struct {
	Heading string
	Flights []FlightView
	Empty   string // Message when Flights is empty
}

// ToFlightView converts a domain flight for display.
func ToFlightView(f domain.Flight) FlightView {
	return FlightView{
		ID:         f.ID,
		Number:     f.Number,
		Airline:    f.Airline,
		Route:      f.Route(),
		DepartDate: shared.FormatDate(f.DepartAt),
		DepartTime: shared.FormatTime(f.DepartAt),
		ArriveTime: shared.FormatTime(f.ArriveAt),
		Duration:   shared.FormatDuration(f.Duration()),
		Fare:       shared.FormatVND(f.FareVND),
		Amenities:  f.Amenities,
		BookURL:    fmt.Sprintf("/bookings/new?flight=%d", f.ID),
	}
}

// ToDealView converts a domain deal for display.
func ToDealView(d domain.Deal) FlightView {
	v := ToFlightView(d.Flight)
	v.SalePrice = shared.FormatVND(d.SalePrice())
	v.Discount = d.DiscountPercent
	return v
}

// ToFlightViews converts a slice of flights.
func ToFlightViews(flights []domain.Flight) []FlightView {
	views := make([]FlightView, len(flights))
	for i, f := range flights {
		views[i] = ToFlightView(f)
	}
	return views
}
