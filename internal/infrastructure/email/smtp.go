package email

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/mitraportal/partner-system/internal/core/ports"
)

var _ ports.Mailer = (*SMTPSender)(nil)

// Config captures SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
	StartTLS bool
}

// SMTPSender delivers transactional mail over SMTP.
type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers a single HTML message.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if s.cfg.StartTLS {
		d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
