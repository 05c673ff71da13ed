// Package bookings renders the booking form and review pages.
package bookings

import (
	"github.com/DukeRupert/skybooker/internal/templ/components"
	"github.com/DukeRupert/skybooker/internal/templ/pages/flights"
)

// CancelBookingLabel is the text of the button that withdraws a pending
// booking.
const CancelBookingLabel = "Huỷ đặt chỗ"

// NewPageData contains data for the passenger details form.
type NewPageData struct {
	Flight    flights.FlightView
	Form      FormData
	Errors    map[string]string
	CSRFToken string
}

// FormData holds form field values for repopulation after validation errors.
type FormData struct {
	FullName string
	Email    string
	Phone    string
}

// ReviewPageData contains data for the booking review page.
type ReviewPageData struct {
	Reference  string
	Status     string
	Passenger  FormData
	Flight     flights.FlightView
	ConfirmURL string // Opens the confirmation modal
	CancelURL  string // Withdraws the pending booking
	CSRFToken  string
	Pending    bool
	Confirm    components.FinalConfirmProps
}
