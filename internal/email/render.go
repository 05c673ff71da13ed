package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// renderer turns a BookingMessage into an Email using the embedded
// templates. Template names are "booking_<status>".
type renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func newRenderer() (*renderer, error) {
	funcs := map[string]any{
		"currentYear": func() int { return time.Now().Year() },
	}

	html, err := htmltemplate.New("email").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html email templates: %w", err)
	}
	text, err := texttemplate.New("email").Funcs(funcs).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text email templates: %w", err)
	}
	return &renderer{html: html, text: text}, nil
}

func (r *renderer) render(msg BookingMessage) (Email, error) {
	subject, ok := subjects[msg.Status]
	if !ok {
		return Email{}, fmt.Errorf("no email template for booking status %q", msg.Status)
	}
	name := "booking_" + msg.Status

	var htmlBuf, textBuf bytes.Buffer
	if err := r.html.ExecuteTemplate(&htmlBuf, name+".html", msg); err != nil {
		return Email{}, fmt.Errorf("render %s.html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&textBuf, name+".txt", msg); err != nil {
		return Email{}, fmt.Errorf("render %s.txt: %w", name, err)
	}

	return Email{
		To:       msg.To,
		Subject:  fmt.Sprintf("[SkyBooker] %s %s", subject, msg.Reference),
		HTMLBody: htmlBuf.String(),
		TextBody: textBuf.String(),
	}, nil
}
