package services

import (
	"context"
	"fmt"

	"procurechain_backend/internal/email"
	"procurechain_backend/internal/logger"
)

// NotificationService шлет письма о ключевых событиях платформы.
// Отправка best-effort: ошибки логируются и не влияют на запрос.
type NotificationService interface {
	SendWelcome(ctx context.Context, to, fullName string)
	SendBidAwardNotice(ctx context.Context, to, companyName, procurementTitle string, amount float64, currency string)
	SendCredentialNotice(ctx context.Context, to, fullName, skill string, score float64)
}

type NotificationServiceImpl struct {
	provider email.Provider
}

func NewNotificationService(provider email.Provider) NotificationService {
	return &NotificationServiceImpl{provider: provider}
}

func (s *NotificationServiceImpl) SendWelcome(ctx context.Context, to, fullName string) {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your ProcureChain account has been created. You can now browse public
procurements, and depending on your role, submit bids, post jobs or take
skill assessments.</p>`, fullName)
	s.send(ctx, to, "Welcome to ProcureChain", body)
}

func (s *NotificationServiceImpl) SendBidAwardNotice(ctx context.Context, to, companyName, procurementTitle string, amount float64, currency string) {
	body := fmt.Sprintf(`<p>Congratulations, %s!</p>
<p>Your bid for <strong>%s</strong> has been awarded at %.2f %s.
The procuring entity will contact you with contract details.</p>`,
		companyName, procurementTitle, amount, currency)
	s.send(ctx, to, "Your bid has been awarded", body)
}

func (s *NotificationServiceImpl) SendCredentialNotice(ctx context.Context, to, fullName, skill string, score float64) {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>You passed the <strong>%s</strong> assessment with a score of %.1f.
A verified skill credential has been added to your profile.</p>`,
		fullName, skill, score)
	s.send(ctx, to, "Skill credential issued", body)
}

func (s *NotificationServiceImpl) send(ctx context.Context, to, subject, body string) {
	if err := s.provider.Send(ctx, to, subject, body); err != nil {
		logger.CtxWarn(ctx, "notification send failed", "to", to, "subject", subject, "error", err)
	}
}
