package service

import (
	"context"

	"go.uber.org/zap"
)

// NotificationService is the Mailer used in this deployment. Outbound email
// is not wired to a provider yet; messages are logged with enough structure
// to swap in a real sender later.
type NotificationService struct {
	logger *zap.Logger
	from   string
}

// NewNotificationService constructs the logging mailer.
func NewNotificationService(logger *zap.Logger, from string) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, from: from}
}

// SendOTP delivers an email verification code.
func (n *NotificationService) SendOTP(ctx context.Context, to, code string) error {
	n.logger.Info("email: verification code",
		zap.String("from", n.from),
		zap.String("to", to),
		zap.String("code", code),
	)
	return nil
}

// SendWelcome delivers the post-verification welcome message.
func (n *NotificationService) SendWelcome(ctx context.Context, to string) error {
	n.logger.Info("email: welcome",
		zap.String("from", n.from),
		zap.String("to", to),
	)
	return nil
}
