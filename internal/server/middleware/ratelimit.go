package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/userkeeper/pkg/api"
)

// RateLimiter ограничивает число запросов с одного адреса за окно window.
// Используется для защиты /login/access-token от перебора паролей.
type RateLimiter struct {
	buckets    map[string]*bucket
	logger     *slog.Logger
	cleanupC   chan struct{}
	now        func() time.Time
	rate       int
	window     time.Duration
	mu         sync.RWMutex
	stopOnce   sync.Once
	trustProxy bool
}

// bucket счетчик запросов для конкретного адреса
type bucket struct {
	lastRefill time.Time
	tokens     int
	mu         sync.Mutex
}

// RateLimiterOption настраивает RateLimiter
type RateLimiterOption func(*RateLimiter)

// WithTrustProxy разрешает брать адрес клиента из X-Forwarded-For / X-Real-IP.
// Включать только за доверенным reverse proxy.
func WithTrustProxy(trust bool) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.trustProxy = trust
	}
}

// WithLimiterClock подменяет источник времени
func WithLimiterClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// NewRateLimiter создает rate limiter и запускает фоновую очистку.
// Вызывающий обязан вызвать Stop.
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		window:   window,
		logger:   logger,
		cleanupC: make(chan struct{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupOldBuckets удаляет buckets, которые не использовались дольше 2*window
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		b.mu.Lock()
		if now.Sub(b.lastRefill) > rl.window*2 {
			delete(rl.buckets, key)
		}
		b.mu.Unlock()
	}
}

// Stop останавливает фоновую очистку. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.cleanupC)
	})
}

// Allow проверяет, разрешен ли запрос для key.
// Если нет, возвращает время до пополнения.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.RLock()
	b, exists := rl.buckets[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// повторная проверка под эксклюзивной блокировкой
		if b, exists = rl.buckets[key]; !exists {
			b = &bucket{tokens: rl.rate, lastRefill: rl.now()}
			rl.buckets[key] = b
		}
		rl.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(b.lastRefill)

	if elapsed >= rl.window {
		b.tokens = rl.rate
		b.lastRefill = now
		elapsed = 0
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, rl.window - elapsed
}

// Middleware возвращает 429 с заголовком Retry-After при превышении лимита
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r, rl.trustProxy)

		allowed, retryAfter := rl.Allow(key)
		if !allowed {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded",
				slog.String("ip", key),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Message: "rate limit exceeded, please try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP извлекает адрес клиента. Заголовки прокси учитываются только при trustProxy.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
