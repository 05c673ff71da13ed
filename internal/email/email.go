// Package email sends the transactional mail of SkyBooker: a notice to the
// passenger when a booking is confirmed or cancelled.
package email

import (
	"context"
)

// Mailer sends booking notices.
type Mailer interface {
	// SendBookingStatus tells the passenger their booking reached a final
	// status. The status selects the template.
	SendBookingStatus(ctx context.Context, msg BookingMessage) error
}

// BookingMessage carries the pre-formatted booking fields rendered into
// the notice.
type BookingMessage struct {
	To        string
	Name      string
	Reference string // short booking reference shown to the passenger
	Status    string // "confirmed" or "cancelled"
	Flight    string // e.g. "Vietnam Airlines VN213"
	Route     string // e.g. "HAN → SGN"
	DepartAt  string
	Fare      string
	URL       string // absolute link to the booking page
}

// Email is a single rendered message.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // empty for Mailhog
	Password string
	From     string
	FromName string
}

const (
	DefaultFromEmail = "noreply@skybooker.vn"
	DefaultFromName  = "SkyBooker"
)

var subjects = map[string]string{
	"confirmed": "Đặt vé thành công",
	"cancelled": "Đặt vé đã huỷ",
}
