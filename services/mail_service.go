package services

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-hub/config"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// Mailer sends transactional HTML emails.
type Mailer interface {
	Send(to, subject, html string) error
}

type smtpMailer struct {
	from     string
	user     string
	password string
	host     string
	addr     string
}

// NewMailer returns an SMTP mailer, or a logging mailer when SMTP_HOST
// is not configured.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return logMailer{}
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &smtpMailer{
		from:     from,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		host:     cfg.SMTPHost,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

func (m *smtpMailer) Send(to, subject, html string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(html)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}

type logMailer struct{}

func (logMailer) Send(to, subject, _ string) error {
	utils.InfoLogger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("SMTP not configured, email skipped")
	return nil
}

func verificationEmail(name, link string) string {
	return fmt.Sprintf(`<h2>Hola %s</h2>
<p>Confirma tu correo para activar tu restaurante:</p>
<p><a href="%s">Verificar correo</a></p>`, name, link)
}

func recoveryEmail(name, password string) string {
	return fmt.Sprintf(`<h2>Hola %s</h2>
<p>Tu nueva contraseña temporal es: <strong>%s</strong></p>
<p>Cámbiala después de iniciar sesión.</p>`, name, password)
}

func reservationEmail(name, restaurant, date, clock string, partySize int) string {
	return fmt.Sprintf(`<h2>Hola %s</h2>
<p>Tu reserva en <strong>%s</strong> para %d personas el %s a las %s fue registrada.</p>`,
		name, restaurant, partySize, date, clock)
}
