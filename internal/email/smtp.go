package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"mime/quotedprintable"
	"net/smtp"
)

const boundary = "skybooker-alternative-boundary"

// SMTPService sends mail through an SMTP relay (Mailhog in development).
type SMTPService struct {
	config   SMTPConfig
	renderer *renderer
	logger   *slog.Logger
}

// NewSMTPService creates an SMTP mailer with the embedded templates.
func NewSMTPService(config SMTPConfig, logger *slog.Logger) (*SMTPService, error) {
	if config.From == "" {
		config.From = DefaultFromEmail
	}
	if config.FromName == "" {
		config.FromName = DefaultFromName
	}

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &SMTPService{config: config, renderer: r, logger: logger}, nil
}

func (s *SMTPService) SendBookingStatus(ctx context.Context, msg BookingMessage) error {
	e, err := s.renderer.render(msg)
	if err != nil {
		return err
	}
	return s.send(ctx, e)
}

func (s *SMTPService) send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.buildMessage(e)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.From, []string{e.To}, msg); err != nil {
		s.logger.Error("failed to send email", "to", e.To, "subject", e.Subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent", "to", e.To, "subject", e.Subject)
	return nil
}

// buildMessage writes a multipart/alternative message with quoted-printable
// text and HTML parts.
func (s *SMTPService) buildMessage(e Email) ([]byte, error) {
	var buf bytes.Buffer

	from := fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.config.FromName), s.config.From)
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", e.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", e.TextBody},
		{"text/html; charset=utf-8", e.HTMLBody},
	}
	for _, p := range parts {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", p.contentType)
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")

		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(p.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes(), nil
}

var _ Mailer = (*SMTPService)(nil)
