package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Args:  cobra.NoArgs,
		Short: "Logout from server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("=== Logout ===")

			if err := c.authService.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			c.io.Println("✓ Logout successful!")
			c.io.Println("Your local session has been deleted.")

			return nil
		},
	}
}
