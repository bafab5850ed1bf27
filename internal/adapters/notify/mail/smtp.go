// Package mail implementa notify.Mailer: SMTP vía gomail, o un mailer que sólo
// registra en el log cuando no hay servidor configurado.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/VaneSolis/Sitio-AFAD/internal/platform/logger"
	"github.com/VaneSolis/Sitio-AFAD/internal/ports/notify"
)

type Config struct {
	Host       string
	Port       int
	User       string
	Pass       string
	From       string
	AdminEmail string
	SiteURL    string
}

// sender abstrae el dialer para poder testear sin servidor SMTP.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	cfg    Config
	dialer sender
	log    logger.Logger
}

func NewSMTPMailer(cfg Config, log logger.Logger) *SMTPMailer {
	if log == nil {
		log = logger.Nop()
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		log:    log.With(map[string]any{"component": "mailer"}),
	}
}

// New elige SMTP si hay host configurado; si no, el mailer de log.
func New(cfg Config, log logger.Logger) notify.Mailer {
	if cfg.Host == "" {
		return NewLogMailer(cfg, log)
	}
	return NewSMTPMailer(cfg, log)
}

func (m *SMTPMailer) DonationReceipt(ctx context.Context, d notify.DonationMail) error {
	msg, err := receipt(d, m.cfg.SiteURL)
	if err != nil {
		return err
	}
	return m.send(ctx, "AFAD", msg)
}

func (m *SMTPMailer) DonationAdminNotice(ctx context.Context, d notify.DonationMail) error {
	msg, err := adminDonation(d, m.cfg.AdminEmail)
	if err != nil {
		return err
	}
	return m.send(ctx, "AFAD Sistema", msg)
}

func (m *SMTPMailer) ContactNotice(ctx context.Context, c notify.ContactMail) error {
	msg, err := adminContact(c, m.cfg.AdminEmail)
	if err != nil {
		return err
	}
	return m.send(ctx, "AFAD Contacto", msg)
}

// send corre DialAndSend en un goroutine para respetar el deadline de ctx;
// gomail no acepta context.
func (m *SMTPMailer) send(ctx context.Context, fromName string, msg message) error {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.cfg.From, fromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	} else {
		gm.SetBody("text/html", msg.HTML)
	}

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(gm) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send %q: %w", msg.Subject, err)
		}
		m.log.Info("email sent", map[string]any{"to": msg.To, "subject": msg.Subject})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
