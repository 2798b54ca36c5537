package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/userkeeper/internal/models"
	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/auth"
	"github.com/iudanet/userkeeper/internal/server/token"
	"github.com/iudanet/userkeeper/pkg/api"
)

type stubLoginService struct {
	login   func(ctx context.Context, cred auth.Credential) (token.AccessToken, error)
	recover func(ctx context.Context, email string) (string, error)
	reset   func(ctx context.Context, resetToken, newPassword string) error
}

func (s *stubLoginService) Login(ctx context.Context, cred auth.Credential) (token.AccessToken, error) {
	return s.login(ctx, cred)
}

func (s *stubLoginService) RecoverPassword(ctx context.Context, email string) (string, error) {
	return s.recover(ctx, email)
}

func (s *stubLoginService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return s.reset(ctx, resetToken, newPassword)
}

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthHandler(svc LoginService) *AuthHandler {
	h := NewAuthHandler(setupTestLogger(), svc)
	h.now = func() time.Time { return testNow }
	return h
}

func TestAuthHandler_Login(t *testing.T) {
	var got auth.Credential
	svc := &stubLoginService{
		login: func(_ context.Context, cred auth.Credential) (token.AccessToken, error) {
			got = cred
			if cred.Secret != "pw123" {
				return token.AccessToken{}, apperr.Authentication(auth.MsgBadCredentials)
			}
			return token.AccessToken{Token: "signed.jwt.value", Subject: "user-1", ExpiresAt: testNow.Add(time.Hour)}, nil
		},
	}
	h := newTestAuthHandler(svc)

	t.Run("form body", func(t *testing.T) {
		form := url.Values{"username": {"u1@example.com"}, "password": {"pw123"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login/access-token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()

		h.Login(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, auth.Credential{Email: "u1@example.com", Secret: "pw123"}, got)

		var resp api.TokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "signed.jwt.value", resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
	})

	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login/access-token",
			strings.NewReader(`{"username":"u1@example.com","password":"pw123"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		form := url.Values{"username": {"u1@example.com"}, "password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login/access-token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body api.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, auth.MsgBadCredentials, body.Message)
	})

	t.Run("missing password", func(t *testing.T) {
		form := url.Values{"username": {"u1@example.com"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login/access-token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "password")
	})
}

func TestAuthHandler_TestToken(t *testing.T) {
	h := newTestAuthHandler(&stubLoginService{})

	t.Run("with principal", func(t *testing.T) {
		p := &auth.Principal{User: &models.User{ID: "user-1", Email: "u1@example.com", IsActive: true}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login/test-token", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), p))
		w := httptest.NewRecorder()

		h.TestToken(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.UserResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "u1@example.com", resp.Email)
		assert.NotContains(t, w.Body.String(), "hashed_password")
	})

	t.Run("without principal", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.TestToken(w, httptest.NewRequest(http.MethodPost, "/api/v1/login/test-token", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_RecoverPassword(t *testing.T) {
	var gotEmail string
	h := newTestAuthHandler(&stubLoginService{
		recover: func(_ context.Context, email string) (string, error) {
			gotEmail = email
			return "Password recovery email sent", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/password-recovery/u1@example.com", nil)
	req.SetPathValue("email", "u1@example.com")
	w := httptest.NewRecorder()

	h.RecoverPassword(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1@example.com", gotEmail)
	assert.Contains(t, w.Body.String(), "Password recovery email sent")
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	tests := []struct {
		serviceErr error
		name       string
		body       string
		wantStatus int
	}{
		{name: "success", body: `{"token":"t","new_password":"newpassword"}`, wantStatus: http.StatusOK},
		{name: "invalid token", body: `{"token":"t","new_password":"newpassword"}`, serviceErr: apperr.InvalidInput("Invalid token"), wantStatus: http.StatusBadRequest},
		{name: "unknown user", body: `{"token":"t","new_password":"newpassword"}`, serviceErr: apperr.NotFound("not found"), wantStatus: http.StatusNotFound},
		{name: "missing token", body: `{"new_password":"newpassword"}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAuthHandler(&stubLoginService{
				reset: func(context.Context, string, string) error { return tt.serviceErr },
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reset-password/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.ResetPassword(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
