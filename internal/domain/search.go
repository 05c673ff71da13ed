package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire format of a native date input.
const DateLayout = "2006-01-02"

// SearchForm is the state of the flight search form on the landing page.
// The page owns it; date inputs only request changes to it.
type SearchForm struct {
	Origin      string
	Destination string
	DepartDate  string // DateLayout, may be empty while the user is typing
	ReturnDate  string // DateLayout, optional
}

// SetField applies a change requested by one of the form's inputs.
// Unknown field names are ignored.
func (f *SearchForm) SetField(name, value string) {
	switch name {
	case "origin":
		f.Origin = strings.ToUpper(strings.TrimSpace(value))
	case "destination":
		f.Destination = strings.ToUpper(strings.TrimSpace(value))
	case "depart_date":
		f.DepartDate = value
	case "return_date":
		f.ReturnDate = value
	}
}

// Validate checks the form before running a search.
func (f SearchForm) Validate() error {
	const op = "SearchForm.Validate"
	ve := Validation(op)
	add := ve.Add

	if len(f.Origin) != 3 {
		add("origin", "Điểm đi phải là mã sân bay 3 chữ cái")
	}
	if len(f.Destination) != 3 {
		add("destination", "Điểm đến phải là mã sân bay 3 chữ cái")
	}
	if f.Origin != "" && f.Origin == f.Destination {
		add("destination", "Điểm đến phải khác điểm đi")
	}

	depart, err := time.Parse(DateLayout, f.DepartDate)
	if err != nil {
		add("depart_date", "Vui lòng chọn ngày đi")
	}
	if f.ReturnDate != "" {
		ret, rerr := time.Parse(DateLayout, f.ReturnDate)
		switch {
		case rerr != nil:
			add("return_date", "Ngày về không hợp lệ")
		case err == nil && ret.Before(depart):
			add("return_date", "Ngày về không được trước ngày đi")
		}
	}

	return ve.Err()
}

// DepartDay returns the parsed departure date (zero if unset or invalid).
func (f SearchForm) DepartDay() time.Time {
	t, _ := time.Parse(DateLayout, f.DepartDate)
	return t
}
