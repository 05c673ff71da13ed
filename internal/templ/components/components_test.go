package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/domain"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var testCategories = []domain.Category{
	{ID: "news", Label: "Tin tức", Icon: "newspaper"},
	{ID: "promotion", Label: "Khuyến mãi", Icon: "tag"},
	{ID: "announcement", Label: "Thông báo", Icon: "megaphone"},
	{ID: "about", Label: "Giới thiệu", Icon: "info"},
}

// =============================================================================
// NavDropdown
// =============================================================================

func TestNavDropdown_ClosedByDefault(t *testing.T) {
	var props NavDropdownProps
	props.Categories = testCategories
	props.Action = "/ui/nav"

	html := render(t, NavDropdown(props))

	assert.Contains(t, html, `data-state="closed"`)
	assert.Contains(t, html, `aria-expanded="false"`)
	assert.NotContains(t, html, `role="menu"`)
	assert.NotContains(t, html, "/posts/news")
}

func TestNavDropdown_ToggleShowsAndHidesList(t *testing.T) {
	props := NavDropdownProps{Categories: testCategories, Action: "/ui/nav"}

	props, route := props.Handle(domain.NavEventToggle, "")
	assert.Empty(t, route)
	assert.Equal(t, domain.VisibilityOpen, props.State)

	html := render(t, NavDropdown(props))
	assert.Contains(t, html, `aria-expanded="true"`)
	for _, c := range testCategories {
		assert.Contains(t, html, `href="`+c.Route()+`"`)
	}
	// Display order follows the configured order
	assert.Less(t, strings.Index(html, "/posts/news"), strings.Index(html, "/posts/promotion"))
	assert.Less(t, strings.Index(html, "/posts/announcement"), strings.Index(html, "/posts/about"))

	props, _ = props.Handle(domain.NavEventToggle, "")
	assert.Equal(t, domain.VisibilityClosed, props.State)
	assert.NotContains(t, render(t, NavDropdown(props)), `role="menu"`)
}

func TestNavDropdown_SelectClosesAndNavigates(t *testing.T) {
	props := NavDropdownProps{State: domain.VisibilityOpen, Categories: testCategories}

	next, route := props.Handle(domain.NavEventSelect, "promotion")

	assert.Equal(t, domain.VisibilityClosed, next.State)
	assert.Equal(t, "/posts/promotion", route)
}

func TestNavDropdown_SelectUnknownCategoryStillCloses(t *testing.T) {
	props := NavDropdownProps{State: domain.VisibilityOpen, Categories: testCategories}

	next, route := props.Handle(domain.NavEventSelect, "careers")

	assert.Equal(t, domain.VisibilityClosed, next.State)
	assert.Empty(t, route)
}

func TestNavDropdown_DismissOnlyRenderedWhileOpen(t *testing.T) {
	closed := render(t, NavDropdown(NavDropdownProps{Categories: testCategories}))
	open := render(t, NavDropdown(NavDropdownProps{State: domain.VisibilityOpen, Categories: testCategories}))

	assert.NotContains(t, closed, `data-action="dismiss"`)
	assert.Contains(t, open, `data-action="dismiss"`)

	next, _ := NavDropdownProps{State: domain.VisibilityOpen}.Handle(domain.NavEventDismiss, "")
	assert.Equal(t, domain.VisibilityClosed, next.State)
}

// =============================================================================
// FinalConfirm
// =============================================================================

func TestFinalConfirm_ClosedRendersNothing(t *testing.T) {
	html := render(t, FinalConfirm(FinalConfirmProps{IsOpen: false}))
	assert.Empty(t, html)
}

func TestFinalConfirm_OpenRendersBothActions(t *testing.T) {
	html := render(t, FinalConfirm(FinalConfirmProps{
		IsOpen:    true,
		Summary:   "VN213 HAN → SGN",
		Action:    "/bookings/abc/confirm",
		CSRFToken: "tok",
	}))

	assert.Contains(t, html, FinalConfirmCancelLabel)
	assert.Contains(t, html, FinalConfirmConfirmLabel)
	assert.Contains(t, html, `value="cancel"`)
	assert.Contains(t, html, `value="confirm"`)
	assert.Contains(t, html, `action="/bookings/abc/confirm"`)
	assert.Contains(t, html, `name="csrf_token"`)
	assert.Contains(t, html, "VN213 HAN → SGN")
}

func TestFinalConfirm_EachActionInvokesExactlyOneCallback(t *testing.T) {
	tests := []struct {
		action      string
		wantClose   int
		wantConfirm int
		wantErr     bool
	}{
		{ConfirmActionCancel, 1, 0, false},
		{ConfirmActionConfirm, 0, 1, false},
		{"delete", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			var closed, confirmed int
			props := FinalConfirmProps{
				IsOpen:    true,
				OnClose:   func() { closed++ },
				OnConfirm: func() { confirmed++ },
			}

			err := props.Handle(tt.action)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantClose, closed)
			assert.Equal(t, tt.wantConfirm, confirmed)
			// The modal never changes its own visibility
			assert.True(t, props.IsOpen)
		})
	}
}

// =============================================================================
// DateInput
// =============================================================================

func TestDateInput_ChangeCallsOnChangeOnce(t *testing.T) {
	var calls []string
	props := DateInputProps{
		Name:     "depart_date",
		Value:    "",
		OnChange: func(v string) { calls = append(calls, v) },
	}

	props.Change("2024-05-01")

	assert.Equal(t, []string{"2024-05-01"}, calls)
}

func TestDateInput_RendersCallerValue(t *testing.T) {
	props := DateInputProps{
		Name:        "depart_date",
		Placeholder: "Ngày đi",
		OnChange:    func(string) {},
	}
	// Caller keeps its own value regardless of what was typed
	props.Change("2024-05-01")
	props.Value = "2024-06-15"

	html := render(t, DateInput(props))

	assert.Contains(t, html, `type="date"`)
	assert.Contains(t, html, `value="2024-06-15"`)
	assert.NotContains(t, html, "2024-05-01")
	assert.Contains(t, html, `placeholder="Ngày đi"`)
	assert.Contains(t, html, "<svg")
}

func TestDateInput_NoValidation(t *testing.T) {
	var got string
	props := DateInputProps{OnChange: func(v string) { got = v }}
	props.Change("not-a-date")
	assert.Equal(t, "not-a-date", got)

	// Nil callback is a no-op
	assert.NotPanics(t, func() { DateInputProps{}.Change("2024-01-01") })
}

func TestDateInput_HtmxWiring(t *testing.T) {
	html := render(t, DateInput(DateInputProps{Name: "return_date", Action: "/search/date", Error: "Ngày về không hợp lệ"}))

	assert.Contains(t, html, `id="date-input-return_date"`)
	assert.Contains(t, html, `hx-post="/search/date"`)
	assert.Contains(t, html, `hx-target="#date-input-return_date"`)
	assert.Contains(t, html, `aria-invalid="true"`)
	assert.Contains(t, html, "Ngày về không hợp lệ")
}

// =============================================================================
// GetFullFlights
// =============================================================================

func TestGetFullFlights_PressInvokesOnClickEveryTime(t *testing.T) {
	var presses int
	props := GetFullFlightsProps{OnClick: func() { presses++ }}

	props.Press()
	assert.Equal(t, 1, presses)

	props.Press()
	props.Press()
	assert.Equal(t, 3, presses)
}

func TestGetFullFlights_Render(t *testing.T) {
	html := render(t, GetFullFlights(GetFullFlightsProps{Action: "/flights/all", Target: "#flight-list"}))

	assert.Equal(t, 1, strings.Count(html, "<button"))
	assert.Contains(t, html, GetFullFlightsLabel)
	assert.Contains(t, html, `hx-get="/flights/all"`)
	assert.Contains(t, html, `hx-target="#flight-list"`)
}

// =============================================================================
// CardNext
// =============================================================================

func TestCardNext_ButtonHasNoHandler(t *testing.T) {
	html := render(t, CardNext(CardNextProps{ImageURL: "/assets/promo/summer-sale.jpg"}))

	assert.Contains(t, html, "Notify me")
	assert.Contains(t, html, `src="/assets/promo/summer-sale.jpg"`)
	assert.NotContains(t, html, "hx-")
	assert.NotContains(t, html, "onclick")
}

func TestCardNext_ClassOverride(t *testing.T) {
	html := render(t, CardNext(CardNextProps{Class: "h-[220px]"}))

	assert.Contains(t, html, "h-[220px]")
	assert.NotContains(t, html, "h-[300px]")
	assert.NotContains(t, html, "<img")
}
