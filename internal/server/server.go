// Package server собирает зависимости и запускает HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/userkeeper/internal/crypto"
	"github.com/iudanet/userkeeper/internal/server/auth"
	"github.com/iudanet/userkeeper/internal/server/config"
	"github.com/iudanet/userkeeper/internal/server/middleware"
	"github.com/iudanet/userkeeper/internal/server/storage"
	"github.com/iudanet/userkeeper/internal/server/storage/postgres"
	"github.com/iudanet/userkeeper/internal/server/storage/sqlite"
	"github.com/iudanet/userkeeper/internal/server/token"
	"github.com/iudanet/userkeeper/internal/server/users"
)

// Store хранилище пользователей с проверкой доступности
type Store interface {
	storage.UserStorage
	Ping(ctx context.Context) error
	Close() error
}

// Server HTTP сервер со всеми зависимостями
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      Store
	limiter    *middleware.RateLimiter
	users      *users.Service
	httpServer *http.Server
}

// Option настраивает Server
type Option func(*options)

type options struct {
	notifier users.Notifier
	now      func() time.Time
}

// WithNotifier задает доставку токенов сброса пароля
func WithNotifier(n users.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithClock подменяет источник времени для токенов и временных меток
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewLogger создает slog логгер по конфигурации
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// OpenStore открывает хранилище выбранного драйвера и применяет миграции
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// New открывает хранилище и собирает сервер.
// При ошибке хранилище закрывается.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	s, err := NewWithStore(ctx, cfg, logger, store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return s, nil
}

// NewWithStore собирает сервер поверх открытого хранилища.
// Владение store переходит к Server.
func NewWithStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, store Store, opts ...Option) (*Server, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	hasher := crypto.NewHasher(crypto.Params{
		Time:    cfg.Auth.HashTime,
		Memory:  cfg.Auth.HashMemoryKiB,
		Threads: cfg.Auth.HashThreads,
		KeyLen:  crypto.DefaultParams.KeyLen,
		SaltLen: crypto.DefaultParams.SaltLen,
	})
	passwords := crypto.NewPool(hasher, cfg.Auth.HashWorkers)

	tokens, err := token.NewService([]byte(cfg.Auth.SecretKey), token.WithClock(o.now))
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	resolver, err := auth.NewResolver(ctx, store, passwords, tokens, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	svcOpts := []users.Option{users.WithClock(o.now)}
	if o.notifier != nil {
		svcOpts = append(svcOpts, users.WithNotifier(o.notifier))
	}
	svc := users.NewService(store, passwords, tokens, resolver, users.Config{
		AccessTokenTTL:    cfg.Auth.AccessTokenTTL,
		ResetTokenTTL:     cfg.Auth.ResetTokenTTL,
		MinPasswordLength: cfg.Auth.PasswordMinLength,
	}, logger, svcOpts...)

	if cfg.Auth.FirstSuperuser != "" {
		created, err := svc.EnsureSuperuser(ctx, cfg.Auth.FirstSuperuser, cfg.Auth.FirstSuperuserPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to bootstrap superuser: %w", err)
		}
		if created {
			logger.InfoContext(ctx, "First superuser created", slog.String("email", cfg.Auth.FirstSuperuser))
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginRequests, cfg.RateLimit.LoginWindow, logger,
		middleware.WithTrustProxy(cfg.RateLimit.TrustProxy))

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		limiter: limiter,
		users:   svc,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.routes(resolver),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return s, nil
}

// Handler возвращает корневой http.Handler со всеми маршрутами и middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run слушает cfg.Server.Addr до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx, затем корректно завершает активные запросы
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.InfoContext(gctx, "HTTP server starting", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close освобождает ресурсы: rate limiter и хранилище
func (s *Server) Close() error {
	s.limiter.Stop()
	return s.store.Close()
}
