package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		wantLevel string
		status    int
	}{
		{name: "profile read", method: http.MethodGet, path: "/api/v1/users/me", status: http.StatusOK, wantLevel: "INFO"},
		{name: "signup conflict", method: http.MethodPost, path: "/api/v1/users/signup", status: http.StatusConflict, wantLevel: "WARN"},
		{name: "bad token", method: http.MethodGet, path: "/api/v1/users/", status: http.StatusUnauthorized, wantLevel: "WARN"},
		{name: "internal error", method: http.MethodDelete, path: "/api/v1/users/me", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf strings.Builder
			logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelInfo}))

			handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{}`))
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			req.Header.Set("User-Agent", "TestAgent/1.0")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, "HTTP request")
			assert.Contains(t, logOutput, tt.method)
			assert.Contains(t, logOutput, tt.path)
			assert.Contains(t, logOutput, "192.168.1.1:12345")
			assert.Contains(t, logOutput, "TestAgent/1.0")
			assert.Contains(t, logOutput, "level="+tt.wantLevel)
		})
	}
}

func TestLoggingMiddleware_DoesNotLeakCredentials(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/password-recovery/victim@example.com", nil)
	req.Header.Set("Authorization", "Bearer secret-token-value")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logOutput := logBuf.String()
	assert.NotContains(t, logOutput, "victim@example.com")
	assert.NotContains(t, logOutput, "secret-token-value")
	assert.Contains(t, logOutput, "/api/v1/password-recovery/***")
}

func TestLoggingMiddleware_CapturesResponseMetrics(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Hello, World!")) // 13 bytes
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "duration_ms=")
	assert.Contains(t, logOutput, "bytes_written=13")
	assert.Contains(t, logOutput, "status=200")
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "normal path", input: "/api/v1/users/me", expected: "/api/v1/users/me"},
		{name: "user id stays", input: "/api/v1/users/6f1c1f4e-2b1a-4c59-9c8e-1b2a3c4d5e6f", expected: "/api/v1/users/6f1c1f4e-2b1a-4c59-9c8e-1b2a3c4d5e6f"},
		{name: "recovery email masked", input: "/api/v1/password-recovery/user@example.com", expected: "/api/v1/password-recovery/***"},
		{name: "reset token masked", input: "/api/v1/reset/secret-token-123", expected: "/api/v1/reset/***"},
		{name: "trailing slash after sensitive segment", input: "/api/v1/reset-password/", expected: "/api/v1/reset-password/"},
		{name: "empty segment kept", input: "/api/v1/password-recovery/", expected: "/api/v1/password-recovery/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestLoggingWithSkip(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := LoggingWithSkip(logger, []string{"/api/v1/utils/health-check/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("true"))
	}))

	t.Run("skipped path is not logged", func(t *testing.T) {
		logBuf.Reset()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/utils/health-check/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, logBuf.String())
	})

	t.Run("other paths are logged", func(t *testing.T) {
		logBuf.Reset()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, logBuf.String(), "/api/v1/users/me")
	})
}

func TestResponseWriter_Captures(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	n, err := rw.Write([]byte("Hello, "))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	_, err = rw.Write([]byte("World!"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, int64(13), rw.written)
	assert.Same(t, w, rw.Unwrap())
}
