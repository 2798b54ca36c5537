package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/userkeeper/internal/client/auth"
)

func (c *Cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Args:  cobra.NoArgs,
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStatus(cmd)
		},
	}
}

func (c *Cli) runStatus(cmd *cobra.Command) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.authService.StoredSession(cmd.Context())
	if errors.Is(err, auth.ErrNotAuthenticated) {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'userkeeper login' to authenticate.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	expiresAt := time.Unix(session.ExpiresAt, 0)
	remaining := expiresAt.Sub(c.now())

	c.io.Println("Status: Authenticated")
	c.io.Printf("Server: %s\n", session.ServerURL)
	c.io.Printf("Email: %s\n", session.Email)
	c.io.Printf("Token expires: %s\n", expiresAt.UTC().Format(time.RFC3339))

	if remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}

	return nil
}
