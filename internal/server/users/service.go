// Package users реализует бизнес-операции над пользователями: регистрацию,
// вход, управление профилем, администрирование и восстановление пароля.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/userkeeper/internal/models"
	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/auth"
	"github.com/iudanet/userkeeper/internal/server/policy"
	"github.com/iudanet/userkeeper/internal/server/storage"
	"github.com/iudanet/userkeeper/internal/server/token"
	"github.com/iudanet/userkeeper/internal/validation"
)

// MaxPageSize максимальный размер страницы списка пользователей
const MaxPageSize = 100

const (
	msgEmailTaken       = "The user with this email already exists in the system"
	msgUserNotFound     = "The user with this id does not exist in the system"
	msgEmailNotFound    = "The user with this email does not exist in the system"
	msgSelfDelete       = "Super users are not allowed to delete themselves"
	msgIncorrectPass    = "Incorrect password"
	msgSamePassword     = "New password cannot be the same as the current one"
	msgInvalidToken     = "Invalid token"
	msgInactiveUser     = "Inactive user"
	msgRecoveryAccepted = "Password recovery email sent"
)

// Passwords хеширует и проверяет пароли в ограниченном пуле воркеров
type Passwords interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, secret, hashed string) (bool, error)
	NeedsRehash(hashed string) bool
}

// Tokens выпускает токены доступа и токены сброса пароля
type Tokens interface {
	Issue(subject string, ttl time.Duration) (token.AccessToken, error)
	IssueReset(email string, ttl time.Duration) (string, error)
	VerifyReset(token string) (string, error)
}

// CredentialResolver устанавливает личность по email и паролю
type CredentialResolver interface {
	ResolveByCredential(ctx context.Context, cred auth.Credential) (*auth.Principal, error)
}

// Config параметры сервиса
type Config struct {
	AccessTokenTTL    time.Duration
	ResetTokenTTL     time.Duration
	MinPasswordLength int
}

// Service бизнес-логика пользователей
type Service struct {
	store     storage.UserStorage
	passwords Passwords
	tokens    Tokens
	resolver  CredentialResolver
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
	cfg       Config
}

// Option настраивает Service
type Option func(*Service)

// WithNotifier задает способ доставки токенов сброса пароля
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithClock подменяет источник времени для created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService создает сервис пользователей
func NewService(store storage.UserStorage, passwords Passwords, tokens Tokens, resolver CredentialResolver, cfg Config, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		passwords: passwords,
		tokens:    tokens,
		resolver:  resolver,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(logger)
	}
	return s
}

// CreateInput данные для создания пользователя.
// IsActive == nil означает активного пользователя.
type CreateInput struct {
	FullName    *string
	IsActive    *bool
	Email       string
	Password    string
	IsSuperuser bool
}

// UpdateInput изменения пользователя; nil поля не меняются
type UpdateInput struct {
	Email       *string
	FullName    *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
}

// Login проверяет учетные данные и выпускает токен доступа.
// Устаревший хеш пароля пересчитывается после успешного входа.
func (s *Service) Login(ctx context.Context, cred auth.Credential) (token.AccessToken, error) {
	principal, err := s.resolver.ResolveByCredential(ctx, cred)
	if err != nil {
		return token.AccessToken{}, err
	}

	if s.passwords.NeedsRehash(principal.User.HashedPassword) {
		if err := s.RehashPassword(ctx, principal.User, cred.Secret); err != nil {
			// вход уже состоялся, старый хеш продолжает работать
			s.logger.WarnContext(ctx, "Failed to rehash password",
				slog.String("user_id", principal.ID()),
				slog.Any("error", err))
		}
	}

	tok, err := s.tokens.Issue(principal.ID(), s.cfg.AccessTokenTTL)
	if err != nil {
		return token.AccessToken{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	s.logger.InfoContext(ctx, "User logged in", slog.String("user_id", principal.ID()))

	return tok, nil
}

// RehashPassword сохраняет хеш пароля, вычисленный текущими параметрами
func (s *Service) RehashPassword(ctx context.Context, user *models.User, secret string) error {
	hashed, err := s.passwords.Hash(ctx, secret)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	updated := user.Clone()
	updated.HashedPassword = hashed
	updated.UpdatedAt = s.timestamp()

	if err := s.store.UpdateUser(ctx, updated); err != nil {
		return fmt.Errorf("failed to store rehashed password: %w", err)
	}

	s.logger.InfoContext(ctx, "Password hash upgraded", slog.String("user_id", user.ID))
	return nil
}

// Signup открытая регистрация. Созданный пользователь активен и не является администратором.
func (s *Service) Signup(ctx context.Context, email, password string, fullName *string) (*models.User, error) {
	return s.create(ctx, CreateInput{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
}

// Create создание пользователя администратором
func (s *Service) Create(ctx context.Context, actor *auth.Principal, in CreateInput) (*models.User, error) {
	if err := policy.RequireSuperuser(actor); err != nil {
		return nil, err
	}

	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in CreateInput) (*models.User, error) {
	email := validation.NormalizeEmail(in.Email)

	if err := s.validateCredentials(email, in.Password); err != nil {
		return nil, err
	}

	hashed, err := s.passwords.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.timestamp()
	user := &models.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    in.IsSuperuser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, apperr.AlreadyExists(msgEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User created",
		slog.String("user_id", user.ID),
		slog.Bool("is_superuser", user.IsSuperuser))

	return user, nil
}

// List возвращает страницу пользователей и их общее количество. Только для администратора.
func (s *Service) List(ctx context.Context, actor *auth.Principal, skip, limit int) ([]*models.User, int, error) {
	if err := policy.RequireSuperuser(actor); err != nil {
		return nil, 0, err
	}

	fields := make(map[string]string)
	if skip < 0 {
		fields["skip"] = "must be greater than or equal to 0"
	}
	if limit < 1 || limit > MaxPageSize {
		fields["limit"] = fmt.Sprintf("must be between 1 and %d", MaxPageSize)
	}
	if len(fields) > 0 {
		return nil, 0, apperr.Validation(fields)
	}

	list, err := s.store.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return list, count, nil
}

// Get возвращает пользователя по id. Обычный пользователь видит только себя.
func (s *Service) Get(ctx context.Context, actor *auth.Principal, id string) (*models.User, error) {
	if err := policy.RequireSelfOrSuperuser(actor, id); err != nil {
		return nil, err
	}

	if id == actor.ID() {
		return actor.User, nil
	}

	return s.load(ctx, id)
}

// UpdateMe изменяет email и имя текущего пользователя
func (s *Service) UpdateMe(ctx context.Context, actor *auth.Principal, email, fullName *string) (*models.User, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}

	return s.apply(ctx, actor.User, UpdateInput{Email: email, FullName: fullName})
}

// Update изменяет любого пользователя. Только для администратора.
func (s *Service) Update(ctx context.Context, actor *auth.Principal, id string, in UpdateInput) (*models.User, error) {
	if err := policy.RequireSuperuser(actor); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, user, in)
}

func (s *Service) apply(ctx context.Context, current *models.User, in UpdateInput) (*models.User, error) {
	user := current.Clone()

	if in.Email != nil {
		email := validation.NormalizeEmail(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, apperr.Validation(map[string]string{"email": err.Error()})
		}
		user.Email = email
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		user.IsSuperuser = *in.IsSuperuser
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password, s.cfg.MinPasswordLength); err != nil {
			return nil, apperr.Validation(map[string]string{"password": err.Error()})
		}
		hashed, err := s.passwords.Hash(ctx, *in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	user.UpdatedAt = s.timestamp()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserAlreadyExists):
			return nil, apperr.AlreadyExists("User with this email already exists")
		case errors.Is(err, storage.ErrUserNotFound):
			return nil, apperr.NotFound(msgUserNotFound)
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "User updated", slog.String("user_id", user.ID))

	return user, nil
}

// ChangePassword меняет пароль текущего пользователя после проверки текущего
func (s *Service) ChangePassword(ctx context.Context, actor *auth.Principal, current, next string) error {
	if err := policy.RequireActive(actor); err != nil {
		return err
	}

	ok, err := s.passwords.Verify(ctx, current, actor.User.HashedPassword)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidInput(msgIncorrectPass)
	}

	if current == next {
		return apperr.InvalidInput(msgSamePassword)
	}

	_, err = s.apply(ctx, actor.User, UpdateInput{Password: &next})
	return err
}

// DeleteMe удаляет текущего пользователя. Администратор не может удалить себя.
func (s *Service) DeleteMe(ctx context.Context, actor *auth.Principal) error {
	if err := policy.RequireActive(actor); err != nil {
		return err
	}
	if actor.User.IsSuperuser {
		return apperr.PermissionDenied(msgSelfDelete)
	}

	return s.remove(ctx, actor.ID())
}

// Delete удаляет пользователя по id. Только для администратора, кроме самого себя.
func (s *Service) Delete(ctx context.Context, actor *auth.Principal, id string) error {
	if err := policy.RequireSuperuser(actor); err != nil {
		return err
	}
	if id == actor.ID() {
		return apperr.PermissionDenied(msgSelfDelete)
	}

	return s.remove(ctx, id)
}

func (s *Service) remove(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "User deleted", slog.String("user_id", id))
	return nil
}

// RecoverPassword отправляет токен сброса пароля, если пользователь существует.
// Ответ не зависит от существования email.
func (s *Service) RecoverPassword(ctx context.Context, email string) (string, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.DebugContext(ctx, "Password recovery for unknown email")
			return msgRecoveryAccepted, nil
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	resetToken, err := s.tokens.IssueReset(user.Email, s.cfg.ResetTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset token: %w", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, resetToken); err != nil {
		return "", fmt.Errorf("failed to send password reset: %w", err)
	}

	return msgRecoveryAccepted, nil
}

// ResetPassword устанавливает новый пароль по токену сброса
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	email, err := s.tokens.VerifyReset(resetToken)
	if err != nil {
		return apperr.InvalidInput(msgInvalidToken)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return apperr.NotFound(msgEmailNotFound)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive {
		return apperr.InvalidInput(msgInactiveUser)
	}

	_, err = s.apply(ctx, user, UpdateInput{Password: &newPassword})
	return err
}

// EnsureSuperuser создает первого администратора, если пользователя с таким email нет.
// Повторный вызов ничего не меняет.
func (s *Service) EnsureSuperuser(ctx context.Context, email, password string) (bool, error) {
	email = validation.NormalizeEmail(email)

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return false, fmt.Errorf("failed to check superuser: %w", err)
	}

	_, err = s.create(ctx, CreateInput{
		Email:       email,
		Password:    password,
		IsSuperuser: true,
	})
	if err != nil {
		// параллельный старт второго экземпляра успел создать запись
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *Service) validateCredentials(email, password string) error {
	fields := make(map[string]string)

	if err := validation.ValidateEmail(email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validation.ValidatePassword(password, s.cfg.MinPasswordLength); err != nil {
		fields["password"] = err.Error()
	}

	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}
