package email

import (
	"context"
	"fmt"

	"procurechain_backend/internal/config"
	"procurechain_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// Provider отправляет уведомления. Отказ отправки никогда не должен
// ронять бизнес-операцию: вызывающий код логирует и продолжает.
type Provider interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPProvider struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{
		dialer: gomail.NewDialer(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUsername,
			cfg.Email.SMTPPassword,
		),
		from:     cfg.Email.FromEmail,
		fromName: cfg.Email.FromName,
	}
}

func (p *SMTPProvider) Send(ctx context.Context, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.from, p.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	logger.CtxInfo(ctx, "email sent", "to", to, "subject", subject)
	return nil
}

// NoopProvider - почта выключена конфигом
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider { return &NoopProvider{} }

func (p *NoopProvider) Send(ctx context.Context, to, subject, htmlBody string) error {
	logger.CtxInfo(ctx, "email disabled, skipping send", "to", to, "subject", subject)
	return nil
}
