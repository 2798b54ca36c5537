package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/userkeeper/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8000/")

	assert.Equal(t, "http://localhost:8000", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_Signup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users/signup", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.UserRegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u1@example.com", req.Email)
		assert.Equal(t, "pw123", req.Password)

		_ = json.NewEncoder(w).Encode(api.UserResponse{ID: "user-123", Email: req.Email, IsActive: true})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Signup(context.Background(), api.UserRegisterRequest{Email: "u1@example.com", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, "user-123", resp.ID)
	assert.True(t, resp.IsActive)
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/login/access-token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())

		if r.PostForm.Get("username") != "u1@example.com" || r.PostForm.Get("password") != "pw123" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Unauthorized", Message: "Incorrect email or password"})
			return
		}

		_ = json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 3600})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Login(context.Background(), "u1@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	_, err = client.Login(context.Background(), "u1@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Incorrect email or password")
}

func TestClient_AuthorizedRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users/me":
			_ = json.NewEncoder(w).Encode(api.UserResponse{ID: "user-123", Email: "u1@example.com"})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/users/me/password":
			var req api.UpdatePasswordRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "old", req.CurrentPassword)
			_ = json.NewEncoder(w).Encode(api.MessageResponse{Message: "Password updated successfully"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users/":
			assert.Equal(t, "10", r.URL.Query().Get("skip"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			_ = json.NewEncoder(w).Encode(api.UsersResponse{Data: []api.UserResponse{{ID: "a"}}, Count: 11})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	me, err := client.Me(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", me.Email)

	msg, err := client.UpdatePassword(ctx, "tok", api.UpdatePasswordRequest{CurrentPassword: "old", NewPassword: "new"})
	require.NoError(t, err)
	assert.Equal(t, "Password updated successfully", msg.Message)

	page, err := client.ListUsers(ctx, "tok", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 11, page.Count)
	assert.Len(t, page.Data, 1)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantContains string
		status       int
		unauthorized bool
	}{
		{name: "validation fields", status: http.StatusUnprocessableEntity, body: `{"error":"Unprocessable Entity","message":"validation failed","fields":{"password":"too short","email":"invalid"}}`, wantContains: "email: invalid; password: too short"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"Forbidden","message":"The user doesn't have enough privileges"}`, wantContains: "enough privileges"},
		{name: "plain text body", status: http.StatusBadGateway, body: "upstream down", wantContains: "upstream down"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"Unauthorized","message":"Could not validate credentials"}`, unauthorized: true, wantContains: "Could not validate credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Me(context.Background(), "tok")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, err.Error(), tt.wantContains)
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).Me(ctx, "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
