// Package auth устанавливает личность пользователя по учетным данным или токену доступа.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/userkeeper/internal/models"
	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/storage"
	"github.com/iudanet/userkeeper/internal/validation"
)

const (
	// MsgBadCredentials единое сообщение для любого неуспешного входа
	MsgBadCredentials = "Incorrect email or password"
	// MsgBadToken сообщение для недействительного токена или пользователя за ним
	MsgBadToken = "Could not validate credentials"
)

// UserFinder операции хранилища, которые нужны резолверу
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// PasswordVerifier проверяет пароли в ограниченном пуле воркеров
type PasswordVerifier interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, secret, hashed string) (bool, error)
}

// TokenVerifier проверяет токены доступа
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Credential учетные данные из запроса на вход. Никогда не сохраняются.
type Credential struct {
	Email  string
	Secret string
}

// Principal пользователь, установленный для одного запроса
type Principal struct {
	User *models.User
}

// ID returns the identifier of the authenticated user.
func (p *Principal) ID() string {
	return p.User.ID
}

// Resolver превращает учетные данные или токен в Principal
type Resolver struct {
	users     UserFinder
	passwords PasswordVerifier
	tokens    TokenVerifier
	logger    *slog.Logger
	dummyHash string
}

// NewResolver создает Resolver. Для неизвестных email пароль сверяется
// с заранее вычисленным хешем.
func NewResolver(ctx context.Context, users UserFinder, passwords PasswordVerifier, tokens TokenVerifier, logger *slog.Logger) (*Resolver, error) {
	dummy, err := passwords.Hash(ctx, rand.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Resolver{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// ResolveByCredential проверяет email и пароль.
// Неизвестный email, неверный пароль и неактивный пользователь дают одну и ту же ошибку.
func (r *Resolver) ResolveByCredential(ctx context.Context, cred Credential) (*Principal, error) {
	email := validation.NormalizeEmail(cred.Email)

	user, err := r.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}

		// Тратим то же время, что и на настоящую проверку
		if _, err := r.passwords.Verify(ctx, cred.Secret, r.dummyHash); err != nil {
			return nil, err
		}
		r.logger.DebugContext(ctx, "Login failed", slog.String("reason", "unknown email"))
		return nil, apperr.Authentication(MsgBadCredentials)
	}

	ok, err := r.passwords.Verify(ctx, cred.Secret, user.HashedPassword)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.logger.DebugContext(ctx, "Login failed",
			slog.String("user_id", user.ID),
			slog.String("reason", "wrong password"))
		return nil, apperr.Authentication(MsgBadCredentials)
	}

	if !user.IsActive {
		r.logger.DebugContext(ctx, "Login failed",
			slog.String("user_id", user.ID),
			slog.String("reason", "inactive user"))
		return nil, apperr.Authentication(MsgBadCredentials)
	}

	return &Principal{User: user}, nil
}

// ResolveByToken проверяет токен доступа и загружает его владельца.
// Удаленный или деактивированный владелец делает токен бесполезным.
func (r *Resolver) ResolveByToken(ctx context.Context, token string) (*Principal, error) {
	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Authentication(MsgBadToken)
	}

	user, err := r.users.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.Authentication(MsgBadToken)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive {
		return nil, apperr.Authentication(MsgBadToken)
	}

	return &Principal{User: user}, nil
}
