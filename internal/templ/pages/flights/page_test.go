package flights

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/templ/components"
)

var sectionPattern = regexp.MustCompile(`data-section="([a-z-]+)"`)

func samplePage() PageData {
	deal := samplePageDeal()
	return PageData{
		Hero: HeroData{
			Search:     domain.SearchForm{Origin: "HAN", DepartDate: "2024-05-01"},
			DateAction: "/search/date",
		},
		Deals: DealsData{
			Deals:       []FlightView{ToDealView(deal)},
			FullFlights: components.GetFullFlightsProps{Action: "/flights/all", Target: "#" + ListTargetID},
		},
		Places: PlacesData{Places: []PlaceView{{City: "Đà Nẵng", Country: "Việt Nam", Code: "DAD", ImageURL: "/thumbs/400x300/places/dad.jpg"}}},
	}
}

func TestPage_RendersSectionsInOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(samplePage()).Render(context.Background(), &buf))
	html := buf.String()

	var sections []string
	for _, m := range sectionPattern.FindAllStringSubmatch(html, -1) {
		sections = append(sections, m[1])
	}
	assert.Equal(t, []string{SectionHero, SectionDeals, SectionPlaces}, sections)

	// One wrapping element, no top-level siblings
	assert.True(t, strings.HasPrefix(html, `<main `))
	assert.True(t, strings.HasSuffix(html, `</main>`))
	assert.Equal(t, 1, strings.Count(html, "<main"))
}

func TestPage_SectionContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(samplePage()).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, `data-component="card-next"`)
	assert.Equal(t, 2, strings.Count(html, `data-component="date-input"`))
	assert.Contains(t, html, `value="2024-05-01"`)
	assert.Contains(t, html, "VN213")
	assert.Contains(t, html, "-20%")
	assert.Contains(t, html, `href="/bookings/new?flight=7"`)
	assert.Contains(t, html, `data-component="get-full-flights"`)
	assert.Contains(t, html, "Đà Nẵng")
}

func TestPage_EmptyDeals(t *testing.T) {
	data := samplePage()
	data.Deals.Deals = nil

	var buf bytes.Buffer
	require.NoError(t, Page(data).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Hiện chưa có ưu đãi nào.")
}

func TestToDealView(t *testing.T) {
	v := ToDealView(samplePageDeal())
	assert.Equal(t, "HAN → SGN", v.Route)
	assert.Equal(t, "2h 10m", v.Duration)
	assert.Equal(t, "07:30", v.DepartTime)
	assert.Equal(t, 20, v.Discount)
	assert.NotEqual(t, v.Fare, v.SalePrice)
}

func samplePageDeal() domain.Deal {
	depart := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	return domain.Deal{
		Flight: domain.Flight{
			ID: 7, Number: "VN213", Airline: "Vietnam Airlines",
			Origin: "HAN", Destination: "SGN",
			DepartAt: depart, ArriveAt: depart.Add(2*time.Hour + 10*time.Minute),
			FareVND: 1500000,
		},
		DiscountPercent: 20,
	}
}

func TestFlightList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FlightList(ListData{Empty: "Không tìm thấy chuyến bay."}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Không tìm thấy chuyến bay.")
}
