// Package cli реализует команды CLI клиента UserKeeper.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/userkeeper/internal/client/api"
	"github.com/iudanet/userkeeper/internal/client/auth"
	"github.com/iudanet/userkeeper/internal/client/iocli"
	"github.com/iudanet/userkeeper/internal/client/storage/boltdb"
	pkgapi "github.com/iudanet/userkeeper/pkg/api"
)

const (
	// PasswordEnv переменная окружения с паролем для неинтерактивного запуска
	PasswordEnv = "USERKEEPER_PASSWORD"

	defaultServerURL = "http://localhost:8000"
	defaultDBPath    = "userkeeper-client.db"
)

var errPasswordMismatch = errors.New("passwords do not match")

// APIClient операции HTTP API, используемые командами
type APIClient interface {
	auth.API
	UpdatePassword(ctx context.Context, token string, req pkgapi.UpdatePasswordRequest) (*pkgapi.MessageResponse, error)
	ListUsers(ctx context.Context, token string, skip, limit int) (*pkgapi.UsersResponse, error)
}

type Cli struct {
	io          iocli.IO
	api         APIClient
	authService *auth.Service
	store       *boltdb.Storage
	newAPI      func(serverURL string) APIClient
	now         func() time.Time

	serverURL    string
	dbPath       string
	passwordFile string
}

func New(io iocli.IO) *Cli {
	return &Cli{
		io: io,
		newAPI: func(serverURL string) APIClient {
			return api.NewClient(serverURL)
		},
		now: time.Now,
	}
}

// NewRootCmd creates the root command
func (c *Cli) NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "userkeeper",
		Short:         "UserKeeper command line client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.serverURL, "server", defaultServerURL, "Server URL")
	flags.StringVar(&c.dbPath, "db", defaultDBPath, "Path to local session database")
	flags.StringVar(&c.passwordFile, "password-file", "",
		"Path to file containing password (env "+PasswordEnv+" has priority)")

	rootCmd.AddCommand(
		c.newRegisterCmd(),
		c.newLoginCmd(),
		c.newLogoutCmd(),
		c.newStatusCmd(),
		c.newMeCmd(),
		c.newPasswdCmd(),
		c.newUsersCmd(),
	)

	return rootCmd
}

// open открывает локальное хранилище и создает API клиент
func (c *Cli) open(ctx context.Context) error {
	store, err := boltdb.New(ctx, c.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	c.store = store
	c.api = c.newAPI(c.serverURL)
	c.authService = auth.NewService(c.api, store, c.serverURL)

	return nil
}

// Close закрывает локальное хранилище
func (c *Cli) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// getPassword retrieves password from various sources with priority:
// 1. Environment variable USERKEEPER_PASSWORD
// 2. File specified by --password-file
// 3. Interactive prompt (fallback)
// interactive сообщает, был ли пароль введен с терминала.
func (c *Cli) getPassword(prompt string) (password string, interactive bool, err error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, false, nil
	}

	if c.passwordFile != "" {
		content, err := os.ReadFile(c.passwordFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", false, errors.New("password file is empty")
		}
		return password, false, nil
	}

	password, err = c.readPassword(prompt)
	if err != nil {
		return "", false, err
	}
	return password, true, nil
}

func (c *Cli) readPassword(prompt string) (string, error) {
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}

// readNewPassword запрашивает новый пароль с подтверждением
func (c *Cli) readNewPassword(prompt string) (string, error) {
	password, err := c.readPassword(prompt)
	if err != nil {
		return "", err
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return "", errPasswordMismatch
	}

	return password, nil
}

// readEmail берет email из флага или спрашивает
func (c *Cli) readEmail(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	return email, nil
}

// session возвращает действующую сессию для авторизованных команд
func (c *Cli) session(ctx context.Context) (string, error) {
	session, err := c.authService.Session(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

// wrapAPIError подсказывает повторный вход, если сервер отклонил токен
func wrapAPIError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("session is no longer valid, run 'userkeeper login' again: %w", err)
	}
	return err
}
