// Package api HTTP клиент к серверу UserKeeper.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/userkeeper/pkg/api"
)

// ErrUnauthorized сервер отклонил учетные данные или токен
var ErrUnauthorized = errors.New("unauthorized")

// Error ответ сервера со статусом вне 2xx
type Error struct {
	Fields     map[string]string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
			parts = append(parts, field+": "+e.Fields[field])
		}
		msg += " [" + strings.Join(parts, "; ") + "]"
	}
	return msg
}

// Is позволяет проверять 401 через errors.Is(err, ErrUnauthorized)
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Authorization не переносится на другой хост
				if len(via) > 0 && req.URL.Host == via[0].URL.Host {
					if h := via[0].Header.Get("Authorization"); h != "" {
						req.Header.Set("Authorization", h)
					}
				}
				return nil
			},
		},
	}
}

// Signup регистрирует нового пользователя
func (c *Client) Signup(ctx context.Context, req api.UserRegisterRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/users/signup", "", req, &resp); err != nil {
		return nil, fmt.Errorf("signup request failed: %w", err)
	}
	return &resp, nil
}

// Login получает токен доступа по email и паролю (OAuth2 password form)
func (c *Client) Login(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	form := url.Values{"username": {email}, "password": {password}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/login/access-token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp api.TokenResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает профиль владельца токена
func (c *Client) Me(ctx context.Context, token string) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// UpdatePassword меняет пароль владельца токена
func (c *Client) UpdatePassword(ctx context.Context, token string, req api.UpdatePasswordRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/users/me/password", token, req, &resp); err != nil {
		return nil, fmt.Errorf("password update request failed: %w", err)
	}
	return &resp, nil
}

// ListUsers возвращает страницу пользователей (только для администратора)
func (c *Client) ListUsers(ctx context.Context, token string, skip, limit int) (*api.UsersResponse, error) {
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}

	var resp api.UsersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/?"+q.Encode(), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return &resp, nil
}

// doJSON выполняет запрос с JSON телом и Bearer токеном
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}

		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && (errResp.Message != "" || errResp.Error != "") {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
			apiErr.Fields = errResp.Fields
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
