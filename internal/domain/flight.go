// Package domain contains core business types and interfaces.
//
// This file defines flights, fare deals and destination places shown on
// the flights landing page.
package domain

import (
	"time"
)

// Timezone is the zone schedules are shown and searched in (UTC+7).
var Timezone = time.FixedZone("ICT", 7*60*60)

// Place is a destination promoted in the "Places" section.
type Place struct {
	ID       int64  // Database identifier
	City     string // Display name, e.g. "Đà Nẵng"
	Country  string // Country name
	Code     string // IATA airport code, e.g. "DAD"
	ImageKey string // Storage key of the cover image
}

// Flight is a scheduled flight that can be booked.
type Flight struct {
	ID          int64     // Database identifier
	Number      string    // Flight number, e.g. "VN213"
	Airline     string    // Operating airline
	Origin      string    // IATA code of departure airport
	Destination string    // IATA code of arrival airport
	DepartAt    time.Time // Scheduled departure
	ArriveAt    time.Time // Scheduled arrival
	FareVND     int64     // Base fare in Vietnamese dong
	Amenities   []string  // e.g. "wifi", "meal"
}

// Duration returns the scheduled block time.
func (f Flight) Duration() time.Duration {
	if f.ArriveAt.Before(f.DepartAt) {
		return 0
	}
	return f.ArriveAt.Sub(f.DepartAt)
}

// Route returns "ORIGIN → DESTINATION".
func (f Flight) Route() string {
	return f.Origin + " → " + f.Destination
}

// Deal is a flight offered at a discount.
type Deal struct {
	Flight          Flight
	DiscountPercent int // 0-100
}

// SalePrice returns the discounted fare, rounded down to the nearest 1,000 VND.
func (d Deal) SalePrice() int64 {
	pct := d.DiscountPercent
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	price := d.Flight.FareVND * int64(100-pct) / 100
	return price - price%1000
}
