// Package mail entrega notificaciones por SMTP.
package mail

import (
	"context"
	"fmt"

	"github.com/jhoicas/opencms-api/internal/application/notification"
	"github.com/jhoicas/opencms-api/pkg/config"
	"gopkg.in/gomail.v2"
)

var _ notification.Sender = (*SMTPSender)(nil)

// dialer lo que SMTPSender usa de gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// DefaultMaxInFlight conexiones SMTP simultáneas, contando las que siguen vivas después
// de que Send retornó por ctx.
const DefaultMaxInFlight = 4

// SMTPSender envía un mensaje por conexión SMTP.
type SMTPSender struct {
	dialer   dialer
	from     string
	inflight chan struct{}
}

// NewSMTPSender construye el sender. Sin usuario configurado no se autentica (smtp4dev).
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newSender(d, cfg.From, DefaultMaxInFlight)
}

func newSender(d dialer, from string, maxInFlight int) *SMTPSender {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &SMTPSender{dialer: d, from: from, inflight: make(chan struct{}, maxInFlight)}
}

// Send entrega el mensaje o retorna cuando ctx vence. gomail no fija plazo una vez conectado,
// así que la entrega en curso sigue hasta terminar y retiene su cupo; con los cupos llenos
// Send espera hasta que ctx vence sin abrir otra conexión.
func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.inflight <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("smtp enviar a %s: sin cupo de conexión: %w", msg.To, ctx.Err())
	}
	m := s.buildMessage(msg)
	done := make(chan error, 1)
	go func() {
		defer func() { <-s.inflight }()
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp enviar a %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp enviar a %s: %w", msg.To, ctx.Err())
	}
}

func (s *SMTPSender) buildMessage(msg notification.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	return m
}
