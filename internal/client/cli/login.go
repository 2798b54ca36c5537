package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func (c *Cli) newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Args:  cobra.NoArgs,
		Short: "Login to server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogin(cmd, email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "User email")

	return cmd
}

func (c *Cli) runLogin(cmd *cobra.Command, email string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.readEmail(email)
	if err != nil {
		return err
	}

	password, _, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println("Authenticating...")

	session, err := c.authService.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", session.Email)
	c.io.Printf("Token expires: %s\n", time.Unix(session.ExpiresAt, 0).UTC().Format(time.RFC3339))

	return nil
}
