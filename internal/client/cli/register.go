package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) newRegisterCmd() *cobra.Command {
	var email, fullName string

	cmd := &cobra.Command{
		Use:   "register",
		Args:  cobra.NoArgs,
		Short: "Register new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRegister(cmd, email, fullName)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&fullName, "full-name", "", "Full name")

	return cmd
}

func (c *Cli) runRegister(cmd *cobra.Command, email, fullName string) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.readEmail(email)
	if err != nil {
		return err
	}

	password, interactive, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}
	if interactive {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if confirm != password {
			return errPasswordMismatch
		}
	}

	c.io.Println("Registering user...")

	user, err := c.authService.Register(cmd.Context(), email, password, fullName)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Println()
	c.io.Println("Please run 'userkeeper login' to start using the service.")

	return nil
}
