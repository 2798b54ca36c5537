// Package token выпускает и проверяет самодостаточные подписанные токены (JWT HS256).
// Токены не хранятся на сервере: валидность определяется подписью и сроком действия.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "userkeeper"

	purposeAccess = "access"
	purposeReset  = "password_reset"
)

var (
	// ErrInvalidToken возвращается для поддельного, поврежденного или истекшего токена.
	// Причина намеренно не различается.
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmptySecret возвращается NewService при пустом ключе подписи
	ErrEmptySecret = errors.New("signing secret is empty")
)

// AccessToken выпущенный токен доступа
type AccessToken struct {
	ExpiresAt time.Time
	Token     string
	Subject   string
}

type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Service подписывает токены ключом, неизменным после создания
type Service struct {
	now    func() time.Time
	secret []byte
}

// Option настраивает Service
type Option func(*Service)

// WithClock подменяет источник времени (используется в тестах)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService создает сервис токенов. Ключ копируется.
func NewService(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	s := &Service{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue выпускает токен доступа для subject со сроком действия ttl
func (s *Service) Issue(subject string, ttl time.Duration) (AccessToken, error) {
	token, expiresAt, err := s.sign(subject, purposeAccess, ttl)
	if err != nil {
		return AccessToken{}, err
	}

	return AccessToken{
		Token:     token,
		Subject:   subject,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify проверяет токен доступа и возвращает его subject
func (s *Service) Verify(token string) (string, error) {
	return s.parse(token, purposeAccess)
}

// IssueReset выпускает токен сброса пароля для email.
// Токен сброса не принимается как токен доступа и наоборот.
func (s *Service) IssueReset(email string, ttl time.Duration) (string, error) {
	token, _, err := s.sign(email, purposeReset, ttl)
	return token, err
}

// VerifyReset проверяет токен сброса пароля и возвращает email
func (s *Service) VerifyReset(token string) (string, error) {
	return s.parse(token, purposeReset)
}

func (s *Service) sign(subject, purpose string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is empty")
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(ttl))

	c := claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: expiresAt,
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, expiresAt.Time, nil
}

func (s *Service) parse(token, purpose string) (string, error) {
	var c claims

	parsed, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if c.Purpose != purpose || c.Subject == "" {
		return "", ErrInvalidToken
	}

	return c.Subject, nil
}
