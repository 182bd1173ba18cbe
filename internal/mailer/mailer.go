package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"reviewhub/internal/config"
)

// Mailer delivers confirmation codes out-of-band. Delivery is an external
// collaborator; services only see this interface.
type Mailer interface {
	SendConfirmationCode(to, username, code string) error
}

// NewFromConfig returns the SMTP mailer when SMTP_HOST is set and the
// logging mailer otherwise, so development runs without a relay.
func NewFromConfig(cfg *config.Config, log *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{log: log}
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.MailFrom,
	}
}

type SMTPMailer struct {
	addr string
	from string
}

func (m *SMTPMailer) SendConfirmationCode(to, username, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirmation code\r\n\r\nHi %s,\r\n\r\nUse this code to obtain an access token: %s\r\n",
		m.from, to, username, code,
	)
	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

// LogMailer writes codes to the log instead of sending them.
type LogMailer struct {
	log *slog.Logger
}

func (m *LogMailer) SendConfirmationCode(to, username, code string) error {
	m.log.Info("confirmation code issued", "to", to, "username", username, "code", code)
	return nil
}
