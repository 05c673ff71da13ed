package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchForm_SetField(t *testing.T) {
	var f SearchForm
	f.SetField("origin", " han ")
	f.SetField("destination", "sgn")
	f.SetField("depart_date", "2024-05-01")
	f.SetField("return_date", "whatever the owner is given")
	f.SetField("passengers", "3")

	assert.Equal(t, SearchForm{
		Origin:      "HAN",
		Destination: "SGN",
		DepartDate:  "2024-05-01",
		ReturnDate:  "whatever the owner is given",
	}, f)
}

func TestSearchForm_Validate(t *testing.T) {
	valid := SearchForm{Origin: "HAN", Destination: "SGN", DepartDate: "2024-05-01", ReturnDate: "2024-05-03"}

	tests := []struct {
		name   string
		mutate func(*SearchForm)
		fields []string
	}{
		{"valid", func(*SearchForm) {}, nil},
		{"one way", func(f *SearchForm) { f.ReturnDate = "" }, nil},
		{"short origin", func(f *SearchForm) { f.Origin = "HA" }, []string{"origin"}},
		{"same airports", func(f *SearchForm) { f.Destination = "HAN" }, []string{"destination"}},
		{"missing depart", func(f *SearchForm) { f.DepartDate = "" }, []string{"depart_date"}},
		{"bad return", func(f *SearchForm) { f.ReturnDate = "03/05/2024" }, []string{"return_date"}},
		{"return before depart", func(f *SearchForm) { f.ReturnDate = "2024-04-30" }, []string{"return_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()

			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			for _, field := range tt.fields {
				assert.Contains(t, ve.Fields, field)
			}
		})
	}
}

func TestSearchForm_DepartDay(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), SearchForm{DepartDate: "2024-05-01"}.DepartDay())
	assert.True(t, SearchForm{DepartDate: "bad"}.DepartDay().IsZero())
}

func TestDeal_SalePrice(t *testing.T) {
	tests := []struct {
		fare int64
		pct  int
		want int64
	}{
		{990000, 25, 742000},
		{1000000, 0, 1000000},
		{1000000, 100, 0},
		{1000000, 150, 0},
		{1000000, -5, 1000000},
	}

	for _, tt := range tests {
		d := Deal{Flight: Flight{FareVND: tt.fare}, DiscountPercent: tt.pct}
		assert.Equal(t, tt.want, d.SalePrice(), "fare %d pct %d", tt.fare, tt.pct)
	}
}

func TestFlight_DurationAndRoute(t *testing.T) {
	dep := time.Date(2024, 5, 1, 7, 0, 0, 0, Timezone)
	f := Flight{Origin: "HAN", Destination: "SGN", DepartAt: dep, ArriveAt: dep.Add(130 * time.Minute)}

	assert.Equal(t, 130*time.Minute, f.Duration())
	assert.Equal(t, "HAN → SGN", f.Route())

	f.ArriveAt = dep.Add(-time.Minute)
	assert.Equal(t, time.Duration(0), f.Duration())
}

func TestParseImageSize(t *testing.T) {
	size, err := ParseImageSize("320x200")
	require.NoError(t, err)
	assert.Equal(t, SizePlace, size)
	assert.Equal(t, "320x200", size.String())

	for _, bad := range []string{"", "320", "axb", "321x200", "99999x99999"} {
		_, err := ParseImageSize(bad)
		assert.Equal(t, EINVALID, ErrorCode(err), bad)
	}
}
