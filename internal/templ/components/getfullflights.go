package components

// GetFullFlightsLabel is the fixed button text.
const GetFullFlightsLabel = "Xem tất cả chuyến bay"

// GetFullFlightsProps wires the button to its owner.
type GetFullFlightsProps struct {
	Action  string // Endpoint requested on press
	Target  string // CSS selector the response is swapped into
	OnClick func()
}

// Press invokes OnClick once per call, with no debounce.
func (p GetFullFlightsProps) Press() {
	if p.OnClick != nil {
		p.OnClick()
	}
}
