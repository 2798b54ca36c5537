package handlers

import (
	"context"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"time"

	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/auth"
	"github.com/iudanet/userkeeper/internal/server/token"
	"github.com/iudanet/userkeeper/internal/validation"
	"github.com/iudanet/userkeeper/pkg/api"
)

// LoginService операции входа и восстановления пароля
type LoginService interface {
	Login(ctx context.Context, cred auth.Credential) (token.AccessToken, error)
	RecoverPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger  *slog.Logger
	service LoginService
	now     func() time.Time
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service LoginService) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
		now:     time.Now,
	}
}

// Login обрабатывает POST /api/v1/login/access-token
// Принимает form (OAuth2 password flow) или JSON с полями username и password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.parseLogin(w, r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	tok, err := h.service.Login(ctx, auth.Credential{Email: req.Username, Secret: req.Password})
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	expiresIn := int64(math.Round(tok.ExpiresAt.Sub(h.now()).Seconds()))

	resp := api.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	}

	w.Header().Set("Cache-Control", "no-store")
	sendJSON(w, h.logger, resp, http.StatusOK)
}

func (h *AuthHandler) parseLogin(w http.ResponseWriter, r *http.Request) (*api.LoginRequest, error) {
	var req api.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		if err := r.ParseForm(); err != nil {
			return nil, apperr.InvalidInput("invalid form body")
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")

		if fields := validation.Struct(&req); len(fields) > 0 {
			return nil, apperr.Validation(fields)
		}
	default:
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
	}

	return &req, nil
}

// TestToken обрабатывает POST /api/v1/login/test-token
// Возвращает пользователя, которому принадлежит токен
func (h *AuthHandler) TestToken(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, toUserResponse(p.User), http.StatusOK)
}

// RecoverPassword обрабатывает POST /api/v1/password-recovery/{email}
// Ответ одинаковый для существующих и несуществующих email
func (h *AuthHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.RecoverPassword(r.Context(), r.PathValue("email"))
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, api.MessageResponse{Message: msg}, http.StatusOK)
}

// ResetPassword обрабатывает POST /api/v1/reset-password/
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.NewPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	sendJSON(w, h.logger, api.MessageResponse{Message: "Password updated successfully"}, http.StatusOK)
}
