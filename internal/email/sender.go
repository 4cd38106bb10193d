// Package email renders and delivers transactional emails.
package email

import (
	"context"

	"prospectmap_backend/platform/config"
	"prospectmap_backend/platform/logger"
)

type Sender interface {
	SendAppointmentReminder(ctx context.Context, toEmail, recipientName, commerceName, startsAt, location string) error
}

// NoopSender logs instead of sending. Used when email is disabled.
type NoopSender struct {
	log *logger.Logger
}

func (s NoopSender) SendAppointmentReminder(_ context.Context, toEmail, _, commerceName, startsAt, _ string) error {
	if s.log != nil {
		s.log.Info("email disabled, reminder not sent", "to", toEmail, "commerce", commerceName, "startsAt", startsAt)
	}
	return nil
}

// NewSender returns the SMTP sender, or a NoopSender when email is disabled.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return NoopSender{log: log}
	}
	return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
}
