// Package config загружает конфигурацию сервера из файла и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения: auth.secret_key -> USERKEEPER_AUTH_SECRET_KEY
const EnvPrefix = "USERKEEPER"

// MinSecretKeyLen минимальная длина ключа подписи токенов
const MinSecretKeyLen = 32

// Драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config конфигурация сервера
type Config struct {
	Log       LogConfig
	Server    ServerConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
}

// ServerConfig параметры HTTP сервера
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig параметры хранилища пользователей
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// AuthConfig параметры аутентификации
type AuthConfig struct {
	SecretKey              string
	FirstSuperuser         string
	FirstSuperuserPassword string
	AccessTokenTTL         time.Duration
	ResetTokenTTL          time.Duration
	HashWorkers            int
	PasswordMinLength      int
	HashTime               uint32
	HashMemoryKiB          uint32
	HashThreads            uint8
}

// RateLimitConfig ограничение частоты попыток входа
type RateLimitConfig struct {
	LoginRequests int
	LoginWindow   time.Duration
	TrustProxy    bool
}

// LogConfig параметры логирования
type LogConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 20*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "userkeeper.db")

	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.access_token_ttl", 8*24*time.Hour)
	v.SetDefault("auth.reset_token_ttl", 48*time.Hour)
	v.SetDefault("auth.hash_workers", 0)
	v.SetDefault("auth.hash_time", 1)
	v.SetDefault("auth.hash_memory_kib", 64*1024)
	v.SetDefault("auth.hash_threads", 4)
	v.SetDefault("auth.password_min_length", 8)
	v.SetDefault("auth.first_superuser", "")
	v.SetDefault("auth.first_superuser_password", "")

	v.SetDefault("ratelimit.login_requests", 5)
	v.SetDefault("ratelimit.login_window", time.Minute)
	v.SetDefault("ratelimit.trust_proxy", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load читает конфигурацию. configPath может быть пустым,
// тогда используются только значения по умолчанию и окружение.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
		},
		Auth: AuthConfig{
			SecretKey:              v.GetString("auth.secret_key"),
			AccessTokenTTL:         v.GetDuration("auth.access_token_ttl"),
			ResetTokenTTL:          v.GetDuration("auth.reset_token_ttl"),
			HashWorkers:            v.GetInt("auth.hash_workers"),
			HashTime:               v.GetUint32("auth.hash_time"),
			HashMemoryKiB:          v.GetUint32("auth.hash_memory_kib"),
			HashThreads:            v.GetUint8("auth.hash_threads"),
			PasswordMinLength:      v.GetInt("auth.password_min_length"),
			FirstSuperuser:         v.GetString("auth.first_superuser"),
			FirstSuperuserPassword: v.GetString("auth.first_superuser_password"),
		},
		RateLimit: RateLimitConfig{
			LoginRequests: v.GetInt("ratelimit.login_requests"),
			LoginWindow:   v.GetDuration("ratelimit.login_window"),
			TrustProxy:    v.GetBool("ratelimit.trust_proxy"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля. Возвращает все найденные ошибки сразу.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be > 0"))
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn must not be empty"))
	}

	if len(c.Auth.SecretKey) < MinSecretKeyLen {
		errs = append(errs, fmt.Errorf("auth.secret_key must be at least %d characters", MinSecretKeyLen))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("auth.access_token_ttl must be > 0"))
	}
	if c.Auth.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("auth.reset_token_ttl must be > 0"))
	}
	if c.Auth.HashWorkers < 0 {
		errs = append(errs, errors.New("auth.hash_workers must be >= 0"))
	}
	if c.Auth.HashTime == 0 || c.Auth.HashMemoryKiB == 0 || c.Auth.HashThreads == 0 {
		errs = append(errs, errors.New("auth.hash_time, auth.hash_memory_kib and auth.hash_threads must be > 0"))
	}
	if c.Auth.PasswordMinLength < 1 {
		errs = append(errs, errors.New("auth.password_min_length must be >= 1"))
	}
	if c.Auth.FirstSuperuser != "" && c.Auth.FirstSuperuserPassword == "" {
		errs = append(errs, errors.New("auth.first_superuser_password is required when auth.first_superuser is set"))
	}

	if c.RateLimit.LoginRequests <= 0 {
		errs = append(errs, errors.New("ratelimit.login_requests must be > 0"))
	}
	if c.RateLimit.LoginWindow <= 0 {
		errs = append(errs, errors.New("ratelimit.login_window must be > 0"))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
