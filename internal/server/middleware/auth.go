package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/auth"
	"github.com/iudanet/userkeeper/internal/server/handlers"
)

// TokenResolver устанавливает личность по токену доступа
type TokenResolver interface {
	ResolveByToken(ctx context.Context, token string) (*auth.Principal, error)
}

// Authenticate создает middleware, которое требует Bearer токен
// и кладет Principal в контекст запроса
func Authenticate(logger *slog.Logger, resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.DebugContext(ctx, "Missing Authorization header")
				handlers.WriteError(w, r, logger, apperr.Authentication("Not authenticated"))
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.WarnContext(ctx, "Invalid Authorization header format")
				handlers.WriteError(w, r, logger, apperr.Authentication("Not authenticated"))
				return
			}

			p, err := resolver.ResolveByToken(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "Token rejected", slog.Any("error", err))
				handlers.WriteError(w, r, logger, err)
				return
			}

			logger.DebugContext(ctx, "User authenticated", slog.String("user_id", p.ID()))

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(ctx, p)))
		})
	}
}
