package mail

import (
	"context"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
	"github.com/VaneSolis/Sitio-AFAD/internal/ports/notify"
)

// LogMailer renderiza los emails y sólo los registra (dev, o SMTP sin configurar).
type LogMailer struct {
	cfg Config
	log logger.Logger
}

func NewLogMailer(cfg Config, log logger.Logger) *LogMailer {
	if log == nil {
		log = logger.Nop()
	}
	return &LogMailer{cfg: cfg, log: log.With(map[string]any{"component": "mailer"})}
}

func (m *LogMailer) DonationReceipt(_ context.Context, d notify.DonationMail) error {
	msg, err := receipt(d, m.cfg.SiteURL)
	if err != nil {
		return err
	}
	m.record(msg)
	return nil
}

func (m *LogMailer) DonationAdminNotice(_ context.Context, d notify.DonationMail) error {
	msg, err := adminDonation(d, m.cfg.AdminEmail)
	if err != nil {
		return err
	}
	m.record(msg)
	return nil
}

func (m *LogMailer) ContactNotice(_ context.Context, c notify.ContactMail) error {
	msg, err := adminContact(c, m.cfg.AdminEmail)
	if err != nil {
		return err
	}
	m.record(msg)
	return nil
}

func (m *LogMailer) record(msg message) {
	m.log.Info("email (smtp not configured)", map[string]any{"to": msg.To, "subject": msg.Subject})
}
