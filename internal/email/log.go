package email

import (
	"context"
	"log/slog"
)

// LogService renders notices and logs them instead of sending. Used when
// no SMTP host is configured.
type LogService struct {
	renderer *renderer
	logger   *slog.Logger
}

// NewLogService creates a mailer that only logs.
func NewLogService(logger *slog.Logger) (*LogService, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &LogService{renderer: r, logger: logger}, nil
}

func (s *LogService) SendBookingStatus(ctx context.Context, msg BookingMessage) error {
	e, err := s.renderer.render(msg)
	if err != nil {
		return err
	}
	s.logger.Info("email not sent, SMTP disabled", "to", e.To, "subject", e.Subject)
	s.logger.Debug("email body", "text", e.TextBody)
	return nil
}

var _ Mailer = (*LogService)(nil)
