package domain

import "fmt"

// Visibility is the two-state machine behind every show/hide widget
// (navigation dropdown, confirmation modal). The zero value is closed.
type Visibility string

const (
	VisibilityClosed Visibility = "closed"
	VisibilityOpen   Visibility = "open"
)

// NavEvent is a request from a widget to its owner to change visibility.
type NavEvent string

const (
	// NavEventToggle is sent when the trigger button is clicked.
	NavEventToggle NavEvent = "toggle"
	// NavEventSelect is sent when an item in the panel is chosen.
	NavEventSelect NavEvent = "select"
	// NavEventDismiss is sent on a click outside the panel or Escape.
	NavEventDismiss NavEvent = "dismiss"
)

// ParseVisibility converts a form value into a Visibility.
// Anything other than "open" is treated as closed.
func ParseVisibility(s string) Visibility {
	if Visibility(s) == VisibilityOpen {
		return VisibilityOpen
	}
	return VisibilityClosed
}

// ParseNavEvent validates an event name posted by a widget.
func ParseNavEvent(s string) (NavEvent, error) {
	switch e := NavEvent(s); e {
	case NavEventToggle, NavEventSelect, NavEventDismiss:
		return e, nil
	default:
		return "", Invalid("ParseNavEvent", fmt.Sprintf("unknown navigation event %q", s))
	}
}

// IsOpen reports whether the panel is shown.
func (v Visibility) IsOpen() bool {
	return v == VisibilityOpen
}

// Toggle flips between open and closed.
func (v Visibility) Toggle() Visibility {
	if v.IsOpen() {
		return VisibilityClosed
	}
	return VisibilityOpen
}

// Close forces the closed state.
func (v Visibility) Close() Visibility {
	return VisibilityClosed
}

// Apply returns the state that follows the given event.
func (v Visibility) Apply(event NavEvent) Visibility {
	switch event {
	case NavEventToggle:
		return v.Toggle()
	case NavEventSelect, NavEventDismiss:
		return v.Close()
	default:
		return v.normalize()
	}
}

func (v Visibility) normalize() Visibility {
	return ParseVisibility(string(v))
}

func (v Visibility) String() string {
	return string(v.normalize())
}
