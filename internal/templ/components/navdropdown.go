package components

import (
	"encoding/json"

	"github.com/DukeRupert/skybooker/internal/domain"
)

// NavDropdownID is the DOM id of the dropdown root, used as swap target.
const NavDropdownID = "nav-dropdown"

// NavDropdownProps is the state of the navigation dropdown as owned by
// the page handler.
type NavDropdownProps struct {
	State      domain.Visibility
	Categories []domain.Category
	Action     string // Endpoint receiving toggle/select/dismiss events
}

// Handle applies an event and returns the props to render next.
// A select event also yields the route to navigate to.
func (p NavDropdownProps) Handle(event domain.NavEvent, categoryID string) (NavDropdownProps, string) {
	next := p
	next.State = p.State.Apply(event)

	if event != domain.NavEventSelect {
		return next, ""
	}
	c, ok := domain.FindCategory(p.Categories, categoryID)
	if !ok {
		return next, ""
	}
	return next, c.Route()
}

// eventVals is the hx-vals payload posted back for event. The current
// state travels with every event since the server keeps none.
func (p NavDropdownProps) eventVals(event domain.NavEvent, categoryID string) string {
	vals := map[string]string{
		"state": p.State.String(),
		"event": string(event),
	}
	if categoryID != "" {
		vals["category"] = categoryID
	}
	return hxVals(vals)
}

func hxVals(v map[string]string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
