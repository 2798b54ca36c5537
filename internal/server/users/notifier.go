package users

import (
	"context"
	"log/slog"
)

// Notifier доставляет токен сброса пароля пользователю
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogNotifier только фиксирует запрос в логе. Сам токен не логируется.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier создает LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendPasswordReset implements Notifier.
func (n *LogNotifier) SendPasswordReset(ctx context.Context, email, _ string) error {
	n.logger.InfoContext(ctx, "Password reset requested", slog.String("email", email))
	return nil
}
