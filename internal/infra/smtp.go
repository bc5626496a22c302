package infra

import (
	"fmt"
	"net/smtp"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends PDF attachments over SMTP. Every delivery goes through a
// circuit breaker so an unreachable mail server fails fast instead of tying up
// the worker pool.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     fmt.Sprintf("%s <%s>", cfg.StoreName, cfg.SMTPUser),
		cb:       cb,
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

// EnviarAdjunto mails a file (ticket or report) to a single recipient.
func (m *Mailer) EnviarAdjunto(to, subject, body, path string) error {
	if !m.Configurado() {
		return fmt.Errorf("mailer: SMTP_HOST no configurado")
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if path != "" {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("mailer: attach file: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error { return e.Send(m.addr, auth) })
}
