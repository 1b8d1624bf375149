// Package mailer delivers plain-text notification emails, either through an
// SMTP relay or by writing .eml files to a local directory.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"github.com/yamdb/yamdb/internal/server/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the backend selected by cfg.MailBackend.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailBackend {
	case config.MailBackendFile:
		return NewFileMailer(cfg.MailDir, cfg.MailFrom), nil
	case config.MailBackendSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.MailBackend)
	}
}

func buildMsg(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
