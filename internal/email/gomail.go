package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
)

// Sender delivers a rendered message through the outbound channel.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type gomailSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSender(cfg config.SMTPConfig) Sender {
	return &gomailSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *gomailSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
