package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"machineshop/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNoConfigurado is returned when SMTP_HOST is empty.
var ErrMailerNoConfigurado = errors.New("mailer: smtp host not configured")

// Mailer sends plain-text notifications through SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configurado reports whether an SMTP host is set.
func (m *Mailer) Configurado() bool { return m.host != "" }

// SendNotificacion e-mails a single recipient.
func (m *Mailer) SendNotificacion(to, subject, body string) error {
	if !m.Configurado() {
		return ErrMailerNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
