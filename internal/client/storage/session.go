// Package storage описывает локальное хранилище CLI клиента.
package storage

import (
	"context"
	"time"
)

// SessionStorage хранит текущую сессию CLI между запусками
type SessionStorage interface {
	// SaveSession заменяет сохраненную сессию
	SaveSession(ctx context.Context, s *Session) error

	// GetSession возвращает ErrSessionNotFound, если сессии нет
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession удаляет сессию (logout)
	DeleteSession(ctx context.Context) error
}

// Session токен доступа и данные о его владельце
type Session struct {
	ServerURL   string `json:"server_url"`
	Email       string `json:"email"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds
}

// Expired сообщает, истек ли токен к моменту now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(time.Unix(s.ExpiresAt, 0))
}
