// Package auth управляет сессией CLI клиента: регистрация, вход и выход.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/userkeeper/internal/client/storage"
	pkgapi "github.com/iudanet/userkeeper/pkg/api"
)

// ErrNotAuthenticated сохраненной сессии нет или ее токен истек
var ErrNotAuthenticated = errors.New("not authenticated, run 'userkeeper login' first")

// API часть HTTP клиента, нужная для работы с сессией
type API interface {
	Signup(ctx context.Context, req pkgapi.UserRegisterRequest) (*pkgapi.UserResponse, error)
	Login(ctx context.Context, email, password string) (*pkgapi.TokenResponse, error)
	Me(ctx context.Context, token string) (*pkgapi.UserResponse, error)
}

// Service предоставляет функции авторизации
type Service struct {
	api       API
	sessions  storage.SessionStorage
	now       func() time.Time
	serverURL string
}

// NewService создает новый сервис авторизации
func NewService(api API, sessions storage.SessionStorage, serverURL string) *Service {
	return &Service{
		api:       api,
		sessions:  sessions,
		serverURL: serverURL,
		now:       time.Now,
	}
}

// Register регистрирует нового пользователя. Сессия не создается.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*pkgapi.UserResponse, error) {
	req := pkgapi.UserRegisterRequest{
		Email:    email,
		Password: password,
	}
	if fullName != "" {
		req.FullName = &fullName
	}

	user, err := s.api.Signup(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return user, nil
}

// Login получает токен доступа и сохраняет сессию локально
func (s *Service) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	// токен подтверждаем запросом профиля, заодно узнаем ID
	user, err := s.api.Me(ctx, resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	session := &storage.Session{
		ServerURL:   s.serverURL,
		Email:       user.Email,
		UserID:      user.ID,
		AccessToken: resp.AccessToken,
		ExpiresAt:   s.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Session возвращает действующую сессию или ErrNotAuthenticated
func (s *Service) Session(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Expired(s.now()) {
		return nil, ErrNotAuthenticated
	}

	return session, nil
}

// StoredSession возвращает сохраненную сессию без проверки срока
func (s *Service) StoredSession(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrNotAuthenticated
	}
	return session, err
}

// Logout удаляет локальную сессию.
// На сервере токены не отзываются, они истекают сами.
func (s *Service) Logout(ctx context.Context) error {
	err := s.sessions.DeleteSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		slog.Debug("no session found during logout")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	return nil
}
